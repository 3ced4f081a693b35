package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector 基于 Prometheus 的 Reporter 实现
//
// Collector 同时实现 prometheus.Collector，可直接注册到任意 Registry。
type Collector struct {
	connects  *prometheus.CounterVec
	accepts   *prometheus.CounterVec
	discovery *prometheus.CounterVec
	closes    prometheus.Counter
	open      prometheus.Gauge
}

// NewCollector 创建指标收集器
func NewCollector(namespace string) *Collector {
	return &Collector{
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Total number of socket connect attempts by outcome.",
		}, []string{"outcome"}),
		accepts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accepts_total",
			Help:      "Total number of socket accept calls by outcome.",
		}, []string{"outcome"}),
		discovery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_total",
			Help:      "Total number of service discovery lookups by outcome.",
		}, []string{"outcome"}),
		closes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "socket_closes_total",
			Help:      "Total number of sockets closed.",
		}),
		open: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_sockets",
			Help:      "Number of sockets currently open.",
		}),
	}
}

// ConnectOutcome 实现 Reporter
func (c *Collector) ConnectOutcome(outcome string) {
	c.connects.WithLabelValues(outcome).Inc()
}

// AcceptOutcome 实现 Reporter
func (c *Collector) AcceptOutcome(outcome string) {
	c.accepts.WithLabelValues(outcome).Inc()
}

// DiscoveryOutcome 实现 Reporter
func (c *Collector) DiscoveryOutcome(outcome string) {
	c.discovery.WithLabelValues(outcome).Inc()
}

// SocketOpened 实现 Reporter
func (c *Collector) SocketOpened() {
	c.open.Inc()
}

// SocketClosed 实现 Reporter
func (c *Collector) SocketClosed() {
	c.closes.Inc()
	c.open.Dec()
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.connects.Describe(ch)
	c.accepts.Describe(ch)
	c.discovery.Describe(ch)
	c.closes.Describe(ch)
	c.open.Describe(ch)
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.connects.Collect(ch)
	c.accepts.Collect(ch)
	c.discovery.Collect(ch)
	c.closes.Collect(ch)
	c.open.Collect(ch)
}
