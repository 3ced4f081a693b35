// Package interfaces 定义 go-rfcomm 的公共接口
//
// 本包只包含外部协作者的契约，不包含实现：
//   - transport.go  - RFCOMM 传输句柄能力（RfcommHandle）与句柄工厂（Transport）
//   - directory.go  - 远端服务目录（SDP 查询协作者）
//
// 实现位于 internal/core/transport 下：
//   - memory     - 进程内模拟传输与服务目录
//   - delegated  - 通过委托引擎转发到平台内部传输对象
package interfaces
