package rfcomm

import "github.com/dep2p/go-rfcomm/pkg/types"

// 错误定义（从 pkg/types 导出）
var (
	ErrSocketClosed         = types.ErrSocketClosed
	ErrNoRemoteDevice       = types.ErrNoRemoteDevice
	ErrNotConnected         = types.ErrNotConnected
	ErrAcceptTimeout        = types.ErrAcceptTimeout
	ErrUnsupported          = types.ErrUnsupported
	ErrInvalidChannel       = types.ErrInvalidChannel
	ErrInvalidAddress       = types.ErrInvalidAddress
	ErrInvalidServiceID     = types.ErrInvalidServiceID
	ErrDiscoveryStartFailed = types.ErrDiscoveryStartFailed
	ErrDiscoveryCanceled    = types.ErrDiscoveryCanceled
	ErrDiscoveryFailed      = types.ErrDiscoveryFailed
	ErrTypeNotFound         = types.ErrTypeNotFound
)

// IsTransportError 检查错误链中是否包含 TransportError
func IsTransportError(err error) bool {
	return types.IsTransportError(err)
}
