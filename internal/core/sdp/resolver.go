package sdp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-rfcomm/internal/core/metrics"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/lib/log"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

var logger = log.Logger("core/sdp")

// ============================================================================
//                              Resolver
// ============================================================================

// Resolver 创建服务发现请求
type Resolver struct {
	dir      interfaces.ServiceDirectory
	cfg      Config
	clock    clock.Clock
	reporter metrics.Reporter
}

// Option Resolver 选项
type Option func(*Resolver)

// WithClock 设置时钟（测试用）
func WithClock(c clock.Clock) Option {
	return func(r *Resolver) {
		r.clock = c
	}
}

// WithReporter 设置指标 Reporter
func WithReporter(rep metrics.Reporter) Option {
	return func(r *Resolver) {
		r.reporter = metrics.OrNop(rep)
	}
}

// NewResolver 创建 Resolver
func NewResolver(dir interfaces.ServiceDirectory, cfg Config, opts ...Option) *Resolver {
	r := &Resolver{
		dir:      dir,
		cfg:      cfg,
		clock:    clock.New(),
		reporter: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config 返回配置
func (r *Resolver) Config() Config {
	return r.cfg
}

// NewRequest 为一次连接尝试创建查询请求
func (r *Resolver) NewRequest(addr types.Address, id types.ServiceID) *Request {
	return &Request{
		resolver: r,
		addr:     addr,
		id:       id,
		result:   newPromise[types.Channel](),
		cancelCh: make(chan struct{}),
		channel:  types.InvalidChannel,
	}
}

// Resolve 创建请求并执行
func (r *Resolver) Resolve(ctx context.Context, addr types.Address, id types.ServiceID) (types.Channel, error) {
	return r.NewRequest(addr, id).Do(ctx)
}

// ============================================================================
//                              Request
// ============================================================================

// Request 一次服务发现
//
// Do 只能调用一次；Cancel 和 OnResult 可在任意 goroutine 上调用。
type Request struct {
	resolver *Resolver
	addr     types.Address
	id       types.ServiceID

	result *promise[types.Channel]

	used       atomic.Bool
	canceled   atomic.Bool
	cancelOnce sync.Once
	cancelCh   chan struct{}

	mu      sync.Mutex
	channel types.Channel
}

// Address 返回查询的远端设备
func (q *Request) Address() types.Address {
	return q.addr
}

// ServiceID 返回查询的服务标识
func (q *Request) ServiceID() types.ServiceID {
	return q.id
}

// Channel 返回最近一次解析得到的信道，未解析时为 InvalidChannel
func (q *Request) Channel() types.Channel {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.channel
}

// Canceled 是否已取消
func (q *Request) Canceled() bool {
	return q.canceled.Load()
}

// Cancel 取消请求并唤醒等待者，可重复调用
func (q *Request) Cancel() {
	q.cancelOnce.Do(func() {
		q.canceled.Store(true)
		close(q.cancelCh)
		logger.Debug("服务发现已取消", "addr", q.addr, "uuid", q.id)
	})
}

// OnResult 目录查询回调
//
// 只有第一个结果生效，取消后到达的结果被忽略。
// 结果按请求记录，不校验回调携带的地址：目录可能以其他形式报告同一设备。
func (q *Request) OnResult(addr types.Address, ch types.Channel) {
	if q.canceled.Load() {
		return
	}
	if addr != q.addr {
		logger.Warn("查询结果地址与请求不一致", "want", q.addr, "got", addr, "channel", ch)
	}
	q.result.fulfill(ch)
}

// Do 提交查询并阻塞等待信道
func (q *Request) Do(ctx context.Context) (types.Channel, error) {
	r := q.resolver
	if q.canceled.Load() {
		r.reporter.DiscoveryOutcome(metrics.OutcomeCanceled)
		return types.InvalidChannel, ErrCanceled
	}
	if !q.used.CompareAndSwap(false, true) {
		return types.InvalidChannel, ErrRequestReused
	}
	if r.dir == nil {
		r.reporter.DiscoveryOutcome(metrics.OutcomeError)
		return types.InvalidChannel, fmt.Errorf("%w: %w", ErrStartFailed, ErrNoDirectory)
	}

	started, err := r.dir.SubmitLookup(q.addr, q.id.UUID16(), q.OnResult)
	if err != nil {
		r.reporter.DiscoveryOutcome(metrics.OutcomeError)
		return types.InvalidChannel, fmt.Errorf("%w: %w", ErrStartFailed, err)
	}
	if !started {
		r.reporter.DiscoveryOutcome(metrics.OutcomeError)
		return types.InvalidChannel, ErrStartFailed
	}

	logger.Debug("服务发现已提交", "addr", q.addr, "uuid", q.id, "timeout", r.cfg.Timeout)

	timer := r.clock.Timer(r.cfg.Timeout)
	defer timer.Stop()

	timedOut := false
	select {
	case <-q.result.Done():
	case <-q.cancelCh:
	case <-timer.C:
		timedOut = true
	case <-ctx.Done():
		q.Cancel()
		r.reporter.DiscoveryOutcome(metrics.OutcomeCanceled)
		return types.InvalidChannel, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	}

	if q.canceled.Load() {
		r.reporter.DiscoveryOutcome(metrics.OutcomeCanceled)
		return types.InvalidChannel, ErrCanceled
	}

	if ch, ok := q.result.value(); ok && ch >= types.MinChannel {
		q.setChannel(ch)
		r.reporter.DiscoveryOutcome(metrics.OutcomeSuccess)
		logger.Debug("服务发现完成", "addr", q.addr, "channel", ch)
		return ch, nil
	}

	return q.fallback(timedOut)
}

func (q *Request) fallback(timedOut bool) (types.Channel, error) {
	r := q.resolver
	reason := "lookup failed"
	if timedOut {
		reason = "timed out"
	}

	if r.cfg.Fallback == PolicyFail {
		outcome := metrics.OutcomeError
		if timedOut {
			outcome = metrics.OutcomeTimeout
		}
		r.reporter.DiscoveryOutcome(outcome)
		return types.InvalidChannel, fmt.Errorf("%w: %s %s", ErrFailed, q.addr, reason)
	}

	ch := r.cfg.FallbackChannel
	q.setChannel(ch)
	r.reporter.DiscoveryOutcome(metrics.OutcomeFallback)
	logger.Warn("服务发现未得到有效信道，使用回退信道",
		"addr", q.addr,
		"uuid", q.id,
		"reason", reason,
		"channel", ch)
	return ch, nil
}

func (q *Request) setChannel(ch types.Channel) {
	q.mu.Lock()
	q.channel = ch
	q.mu.Unlock()
}
