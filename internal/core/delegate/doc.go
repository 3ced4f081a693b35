// Package delegate 实现委托引擎
//
// 委托引擎把一个能力接口上的调用，按方法描述符转发到一个底层类型
// （可能带有实例）上的同名同参方法。底层类型通常来自平台内部，
// 只在运行时通过名称可见，可能缺少某些方法，也可能只以非公开方法的形式存在。
//
// # 解析顺序
//
// 对每个描述符，Binding 依次尝试：
//
//  1. 沿继承链（最派生的类型优先）查找公开方法
//  2. 在继承链每一层自身声明的方法中查找（任意可见性），强制可调用
//  3. 记录为"无此能力"
//
// 解析结果写入一次性缓存，同一 Binding 上每个描述符只解析一次，
// 即使首次调用是并发发生的。
//
// # 调用结果
//
// Invoke 返回三态 Result：
//
//	Unsupported  底层类型没有此能力，或实例方法没有绑定实例
//	Succeeded    调用成功，Value 为返回值
//	Failed       底层方法返回错误或发生 panic
//
// 缺失的能力是静默降级，不是错误。由调用方决定某个能力是否必需。
//
// # 使用示例
//
//	socketType := delegate.NewType("platform.RfcommSocket", nil,
//	    delegate.MethodSpec{Name: "close", Public: true, Fn: closeFn},
//	)
//	b, _ := delegate.Bind("rfcomm.Socket", socketType, inst)
//	r := b.Invoke(delegate.Method("close"))
//	if r.Unsupported() {
//	    // 底层没有 close，按 no-op 处理
//	}
package delegate
