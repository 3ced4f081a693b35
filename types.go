package rfcomm

import (
	"github.com/dep2p/go-rfcomm/internal/core/socket"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// 类型别名
type (
	// Socket RFCOMM socket
	Socket = socket.Socket

	// ClientOption 客户端 socket 选项
	ClientOption = socket.ClientOption

	// Address 远端设备地址
	Address = types.Address

	// ServiceID 服务标识
	ServiceID = types.ServiceID

	// Channel RFCOMM 信道
	Channel = types.Channel

	// BindStatus BindListen 返回码
	BindStatus = types.BindStatus

	// TransportError 传输层错误
	TransportError = types.TransportError
)

// 常量
const (
	// Infinite accept 无限等待
	Infinite = socket.Infinite

	// AnyChannel 任选空闲信道
	AnyChannel = types.AnyChannel

	BindOK           = types.BindOK
	BindAddressInUse = types.BindAddressInUse
	BindBadState     = types.BindBadState
)

// SerialPortServiceID 串口服务（SPP）标识 0x1101
var SerialPortServiceID = types.SerialPortServiceID

// 辅助函数
var (
	ParseAddress        = types.ParseAddress
	MustParseAddress    = types.MustParseAddress
	ParseServiceID      = types.ParseServiceID
	ServiceIDFromUUID16 = types.ServiceIDFromUUID16

	// WithChannel 设置客户端预置信道
	WithChannel = socket.WithChannel
)
