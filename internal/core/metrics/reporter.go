package metrics

// 结果标签
const (
	OutcomeSuccess  = "success"
	OutcomeTimeout  = "timeout"
	OutcomeClosed   = "closed"
	OutcomeCanceled = "canceled"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Reporter 记录 socket 生命周期事件
type Reporter interface {
	// ConnectOutcome 记录一次连接尝试的结果
	ConnectOutcome(outcome string)

	// AcceptOutcome 记录一次 accept 的结果
	AcceptOutcome(outcome string)

	// DiscoveryOutcome 记录一次服务发现的结果
	DiscoveryOutcome(outcome string)

	// SocketOpened 记录 socket 创建
	SocketOpened()

	// SocketClosed 记录 socket 关闭
	SocketClosed()
}

// Nop 不记录任何指标的 Reporter
type Nop struct{}

func (Nop) ConnectOutcome(string)   {}
func (Nop) AcceptOutcome(string)    {}
func (Nop) DiscoveryOutcome(string) {}
func (Nop) SocketOpened()           {}
func (Nop) SocketClosed()           {}

var (
	_ Reporter = Nop{}
	_ Reporter = (*Collector)(nil)
)

// OrNop 在 r 为 nil 时返回 Nop
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop{}
	}
	return r
}
