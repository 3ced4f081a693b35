// Package delegated 把 interfaces.RfcommHandle 适配到委托引擎
//
// 平台传输对象只以名称可见的底层类型存在时，Handle 按方法描述符
// 把每个能力转发给 delegate.Binding。能力缺失的处理：
//
//   - 半关闭、关闭、create、destroy：视为 no-op
//   - connect、bind、listen、accept、流：返回 ErrUnsupported
//   - 对端地址：视为缺失
package delegated
