package socket

import (
	"errors"

	"github.com/dep2p/go-rfcomm/pkg/types"
)

var (
	// ErrSocketClosed socket 已关闭
	ErrSocketClosed = types.ErrSocketClosed

	// ErrAcceptTimeout 有限超时的 accept 到期
	ErrAcceptTimeout = types.ErrAcceptTimeout

	// ErrNoRemoteDevice 没有远端设备
	ErrNoRemoteDevice = types.ErrNoRemoteDevice

	// ErrUnsupported 不支持的操作
	ErrUnsupported = types.ErrUnsupported

	// ErrFactoryClosed 工厂已关闭
	ErrFactoryClosed = errors.New("socket: factory closed")

	// ErrNoTransport 未配置传输
	ErrNoTransport = errors.New("socket: no transport")
)
