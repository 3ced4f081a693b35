package delegate

import (
	"errors"

	"github.com/dep2p/go-rfcomm/pkg/types"
)

var (
	// ErrTypeNotFound 找不到指定名称的底层类型
	ErrTypeNotFound = types.ErrTypeNotFound

	// ErrUnsupported 底层类型不具备所需能力
	ErrUnsupported = types.ErrUnsupported

	// ErrNilType 绑定时未提供底层类型
	ErrNilType = errors.New("delegate: nil type")

	// ErrDuplicateType 同名类型重复注册
	ErrDuplicateType = errors.New("delegate: type already registered")

	// ErrArgCount 参数个数与描述符不匹配
	ErrArgCount = errors.New("delegate: argument count mismatch")
)
