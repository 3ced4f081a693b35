// Package metrics 提供 RFCOMM socket 的监控指标
//
// 基于 Prometheus client_golang，记录：
//   - 连接尝试结果（按 outcome 标签）
//   - accept 结果（按 outcome 标签）
//   - 服务发现结果（按 outcome 标签）
//   - close 次数与当前打开的 socket 数
//
// # 快速开始
//
//	reg := prometheus.NewRegistry()
//	c := metrics.NewCollector("rfcomm")
//	_ = reg.Register(c)
//
//	c.ConnectOutcome(metrics.OutcomeSuccess)
//
// 组件只依赖 Reporter 接口，未启用指标时使用 Nop。
package metrics
