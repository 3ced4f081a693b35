// Package rfcomm 提供 RFCOMM/SPP 流式 socket
//
// 在缺少公开 RFCOMM API 的平台上，通过平台内部的传输对象提供面向连接的
// 串口式 socket。核心能力：
//
//   - 客户端 socket：可选的 SDP 服务发现 + 阻塞连接
//   - 服务端 socket：绑定信道、监听、可取消的阻塞 accept
//   - 任意 goroutine 上调用 Close 都能及时打断进行中的阻塞调用
//
// # 快速开始
//
//	hub := memory.NewHub()
//	dev := hub.Device(rfcomm.MustParseAddress("00:00:00:00:00:02"))
//
//	stack, err := rfcomm.New(
//	    rfcomm.WithTransport(dev),
//	    rfcomm.WithDirectory(hub),
//	)
//	if err != nil {
//	    return err
//	}
//	defer stack.Close()
//
//	id := rfcomm.SerialPortServiceID
//	s, _ := stack.NewSocket(remote, &id)
//	if err := s.Connect(ctx); err != nil {
//	    return err
//	}
//
// # 服务端
//
//	server, err := stack.Listen(rfcomm.AnyChannel)
//	for {
//	    conn, err := server.Accept(ctx, rfcomm.Infinite)
//	    if conn == nil && err == nil {
//	        return // server 已关闭
//	    }
//	}
package rfcomm
