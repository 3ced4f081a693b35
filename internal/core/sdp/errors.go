package sdp

import (
	"errors"

	"github.com/dep2p/go-rfcomm/pkg/types"
)

var (
	// ErrStartFailed 查询无法提交
	ErrStartFailed = types.ErrDiscoveryStartFailed

	// ErrCanceled 查询被取消
	ErrCanceled = types.ErrDiscoveryCanceled

	// ErrFailed 未得到有效信道
	ErrFailed = types.ErrDiscoveryFailed

	// ErrRequestReused 同一 Request 被重复使用
	ErrRequestReused = errors.New("sdp: request already used")

	// ErrNoDirectory 未配置服务目录
	ErrNoDirectory = errors.New("sdp: no service directory")
)
