// Package sdp 实现服务发现辅助
//
// 对每次连接尝试，Request 向远端服务目录提交一次查询，
// 等待回调给出服务所在的 RFCOMM 信道。等待受三方约束：
//
//   - 结果到达
//   - 上限时长（默认 12 秒）到期
//   - 请求被取消（socket close）或调用方 context 结束
//
// 未得到有效信道（超时或查询失败）时按回退策略处理：
//
//	PolicyDefaultChannel  回退到固定信道（默认 1，兼容旧行为）
//	PolicyFail            返回 ErrDiscoveryFailed
//
// Request 只能使用一次，每次连接尝试创建新的 Request。
package sdp
