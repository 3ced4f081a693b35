// Package transport 选择 socket 使用的传输实现
//
// 同一个平台传输来源可以两种方式驱动：
//
//   - native：直接使用来源实现的 interfaces.Transport
//   - delegated：把来源描述为底层类型注册到委托引擎，
//     每个句柄通过 delegate.Binding 按方法描述符转发
//
// 模式由 config.Transport.Mode 决定。
//
// # 使用示例
//
//	hub := memory.NewHub()
//	tr, err := transport.New(transport.Config{Mode: config.TransportDelegated},
//	    hub.Device(addr))
package transport
