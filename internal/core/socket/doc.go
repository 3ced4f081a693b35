// Package socket 实现 RFCOMM socket 生命周期管理
//
// Socket 持有一个传输句柄，负责 connect/accept/close 的状态转换，
// 以及让 close 能够安全打断阻塞操作的加锁约定。
//
// # 加锁约定
//
// 每个 Socket 有一把两种角色的锁：
//
//	共享角色（RLock）  所有操作，以及 close 的取消阶段
//	独占角色（Lock）   close 的释放阶段
//
// 所有传输调用都在共享角色下、检查关闭状态之后发生，
// 因此释放阶段完成后不会再有传输调用。
//
// close 分两步：先在共享角色下发出取消信号（取消令牌、取消进行中的服务发现、
// 半关闭和关闭传输），让阻塞中的 connect/accept 返回；再获取独占角色，
// 标记 CLOSED 并销毁句柄。第二步总是很快，因为阻塞调用已经被打断。
//
// # Accept
//
//	timeout >= 0   恰好一次有界 accept，到期返回 ErrAcceptTimeout
//	Infinite       按 AcceptPollInterval 轮询，每次未命中后检查关闭状态，
//	               socket 被关闭时返回 (nil, nil)
//
// # 使用示例
//
//	f, _ := socket.NewFactory(transport, resolver, socket.DefaultConfig())
//	s, _ := f.NewClient(addr, &types.SerialPortServiceID)
//	defer s.Close()
//
//	if err := s.Connect(ctx); err != nil {
//	    return err
//	}
//	out, _ := s.OutputStream()
package socket
