// Package memory 提供进程内的 RFCOMM 传输实现
//
// Hub 模拟一片无线范围：每个 Device 有自己的地址和 30 个 RFCOMM 信道，
// Device 作为 interfaces.Transport 创建 Handle。Hub 同时实现
// interfaces.ServiceDirectory 和 interfaces.ServiceRegistrar，
// 充当所有设备的服务记录目录。
//
// 连接建立后两端通过 net.Pipe 交换数据。
//
// # 使用示例
//
//	hub := memory.NewHub()
//	server := hub.Device(types.MustParseAddress("00:00:00:00:00:01"))
//	client := hub.Device(types.MustParseAddress("00:00:00:00:00:02"))
//
//	h, _ := server.Open()
//	_ = h.Bind(types.AnyChannel)
//	_ = h.Listen(-1)
//	_ = hub.RegisterService(server.Address(), types.SerialPortServiceID, h.(*memory.Handle).Channel())
//
// Describe 把 Handle 描述为委托引擎可绑定的底层类型，
// 用于在委托模式下驱动同一套实现。
package memory
