// Package mocks 提供统一的测试 Mock 实现
//
// # 传输 Mock
//
//   - MockHandle: 模拟 interfaces.RfcommHandle，默认的 Accept 会阻塞到超时或 Shutdown
//   - MockTransport: 模拟 interfaces.Transport，按顺序分发预置句柄
//
// # 发现 Mock
//
//   - MockDirectory: 模拟 interfaces.ServiceDirectory，可立即、延迟或从不回调
//
// # 设计原则
//
// 1. 函数式注入: 每个 Mock 都支持通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 记录调用次数，便于验证测试行为
// 3. 并发安全: socket 测试会在 close 与阻塞调用之间制造并发
//
// # 使用示例
//
//	h := mocks.NewMockHandle()
//	h.BindFunc = func(ch types.Channel) error {
//	    return errors.New("address in use")
//	}
//	tr := mocks.NewMockTransport(h)
package mocks
