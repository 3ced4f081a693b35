// Package types 定义 go-rfcomm 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 go-rfcomm 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - address.go    - Address 远端设备地址（RemoteDevice）
//   - service_id.go - ServiceID 128 位服务标识及其 16 位短格式
//   - channel.go    - Channel RFCOMM 信道号
//   - status.go     - BindStatus bindListen 返回码
//   - errors.go     - 公共错误定义
//
// # 设计原则
//
//   - 值类型：Address、ServiceID、Channel 均可安全复制和比较
//   - 零值语义：零值 Address 表示"未知/未设置"
//   - 无副作用：本包不做日志，不做 I/O
package types
