package socket

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-rfcomm/internal/core/metrics"
	"github.com/dep2p/go-rfcomm/internal/core/sdp"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/lib/log"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

var logger = log.Logger("core/socket")

// Kind socket 角色
type Kind int

const (
	// KindClient 主动连接的客户端
	KindClient Kind = iota
	// KindServer 监听并 accept 的服务端
	KindServer
	// KindAccepted accept 得到的子 socket
	KindAccepted
)

// String 返回角色名
func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// boundChannel 能报告实际绑定信道的句柄
type boundChannel interface {
	Channel() types.Channel
}

// Socket RFCOMM socket
type Socket struct {
	f    *Factory
	id   uint64
	kind Kind

	handle interfaces.RfcommHandle

	// 构造后不再修改
	remote        types.Address
	serviceID     *types.ServiceID
	listenChannel types.Channel

	// lock 共享角色用于操作和 close 的取消阶段，独占角色用于释放阶段
	lock   sync.RWMutex
	closed atomic.Bool

	// token 在 close 的取消阶段被取消
	token  context.Context
	cancel context.CancelFunc

	pendingMu sync.Mutex
	pending   *sdp.Request

	chanMu  sync.Mutex
	channel types.Channel
}

// ID 返回 socket 编号
func (s *Socket) ID() uint64 {
	return s.id
}

// Kind 返回 socket 角色
func (s *Socket) Kind() Kind {
	return s.kind
}

// RemoteDevice 返回远端设备，服务端 socket 为零值
func (s *Socket) RemoteDevice() types.Address {
	return s.remote
}

// ServiceID 返回服务标识，未设置时为 nil
func (s *Socket) ServiceID() *types.ServiceID {
	return s.serviceID
}

// Channel 返回最近一次解析或绑定的信道
func (s *Socket) Channel() types.Channel {
	s.chanMu.Lock()
	defer s.chanMu.Unlock()
	return s.channel
}

// IsClosed 是否已关闭
func (s *Socket) IsClosed() bool {
	return s.closed.Load()
}

// IsConnected 传输是否已连接
func (s *Socket) IsConnected() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed.Load() {
		return false
	}
	return s.handle.IsConnected()
}

// ============================================================================
//                              Connect
// ============================================================================

// Connect 连接远端设备
//
// 设置了服务标识时先执行服务发现，再在解析到的信道上阻塞连接。
// 并发的 Close 会让服务发现和传输连接尽快返回。
func (s *Socket) Connect(ctx context.Context) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closing() {
		s.f.reporter.ConnectOutcome(metrics.OutcomeClosed)
		return ErrSocketClosed
	}
	if s.remote.IsZero() {
		s.f.reporter.ConnectOutcome(metrics.OutcomeError)
		return ErrNoRemoteDevice
	}

	ctx, stop := s.withToken(ctx)
	defer stop()

	ch, err := s.resolveChannel(ctx)
	if err != nil {
		s.f.reporter.ConnectOutcome(s.failureOutcome())
		return err
	}

	if s.closing() {
		s.f.reporter.ConnectOutcome(metrics.OutcomeClosed)
		return ErrSocketClosed
	}

	logger.Debug("开始连接", "id", s.id, "remote", s.remote, "channel", ch)
	if err := s.handle.Connect(ctx, s.remote, ch); err != nil {
		terr := types.NewTransportError("connect", err)
		if s.closing() {
			s.f.reporter.ConnectOutcome(metrics.OutcomeClosed)
			return fmt.Errorf("%w: %w", ErrSocketClosed, terr)
		}
		s.f.reporter.ConnectOutcome(metrics.OutcomeError)
		logger.Debug("连接失败", "id", s.id, "remote", s.remote, "channel", ch, "err", err)
		return terr
	}

	s.f.reporter.ConnectOutcome(metrics.OutcomeSuccess)
	logger.Info("连接已建立", "id", s.id, "remote", s.remote, "channel", ch)
	return nil
}

// resolveChannel 通过服务发现或预置信道得到连接信道
func (s *Socket) resolveChannel(ctx context.Context) (types.Channel, error) {
	if s.serviceID == nil {
		ch := s.Channel()
		if err := ch.Validate(); err != nil {
			return types.InvalidChannel, err
		}
		return ch, nil
	}

	req := s.f.resolver.NewRequest(s.remote, *s.serviceID)
	s.setPending(req)
	defer s.clearPending(req)

	ch, err := req.Do(ctx)
	if err != nil {
		return types.InvalidChannel, err
	}
	s.setChannel(ch)
	return ch, nil
}

func (s *Socket) setPending(req *sdp.Request) {
	s.pendingMu.Lock()
	s.pending = req
	s.pendingMu.Unlock()

	// close 在登记之前已经发出取消信号
	if s.token.Err() != nil {
		req.Cancel()
	}
}

func (s *Socket) clearPending(req *sdp.Request) {
	s.pendingMu.Lock()
	if s.pending == req {
		s.pending = nil
	}
	s.pendingMu.Unlock()
}

func (s *Socket) cancelPending() {
	s.pendingMu.Lock()
	req := s.pending
	s.pendingMu.Unlock()
	if req != nil {
		req.Cancel()
	}
}

// ============================================================================
//                              BindListen
// ============================================================================

// BindListen 绑定信道并开始监听
//
// 返回 BindOK、BindAddressInUse（绑定或监听失败）或 BindBadState（已关闭）。
func (s *Socket) BindListen() types.BindStatus {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closing() {
		return types.BindBadState
	}

	if err := s.handle.Bind(s.listenChannel); err != nil {
		logger.Warn("绑定信道失败", "id", s.id, "channel", s.listenChannel, "err", err)
		return types.BindAddressInUse
	}
	if err := s.handle.Listen(s.f.cfg.Backlog); err != nil {
		logger.Warn("监听失败", "id", s.id, "channel", s.listenChannel, "err", err)
		return types.BindAddressInUse
	}

	ch := s.listenChannel
	if bc, ok := s.handle.(boundChannel); ok {
		if got := bc.Channel(); got.Valid() {
			ch = got
		}
	}
	s.setChannel(ch)

	logger.Info("开始监听", "id", s.id, "channel", ch)
	return types.BindOK
}

// ============================================================================
//                              Accept
// ============================================================================

// Accept 等待一个入站连接
//
// timeout >= 0 时只做一次有界等待，到期返回 ErrAcceptTimeout。
// timeout 为 Infinite 时轮询等待，socket 被关闭时返回 (nil, nil)。
func (s *Socket) Accept(ctx context.Context, timeout time.Duration) (*Socket, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closing() {
		s.f.reporter.AcceptOutcome(metrics.OutcomeClosed)
		return nil, ErrSocketClosed
	}

	ctx, stop := s.withToken(ctx)
	defer stop()

	child, err := s.f.openHandle()
	if err != nil {
		s.f.reporter.AcceptOutcome(metrics.OutcomeError)
		return nil, err
	}
	accepted := false
	defer func() {
		if !accepted {
			child.Destroy()
		}
	}()

	if timeout >= 0 {
		ok, err := s.handle.Accept(ctx, child, timeout)
		switch {
		case ok:
		case s.closing():
			s.f.reporter.AcceptOutcome(metrics.OutcomeClosed)
			return nil, ErrSocketClosed
		case err != nil:
			return nil, s.acceptError(ctx, err)
		default:
			s.f.reporter.AcceptOutcome(metrics.OutcomeTimeout)
			return nil, ErrAcceptTimeout
		}
	} else {
		poll := s.f.cfg.AcceptPollInterval
		for {
			ok, err := s.handle.Accept(ctx, child, poll)
			if ok {
				break
			}
			if s.closing() {
				s.f.reporter.AcceptOutcome(metrics.OutcomeClosed)
				logger.Debug("accept 因关闭而结束", "id", s.id)
				return nil, nil
			}
			if err != nil {
				return nil, s.acceptError(ctx, err)
			}
		}
	}

	c, err := s.adopt(child)
	if err != nil {
		s.f.reporter.AcceptOutcome(metrics.OutcomeClosed)
		return nil, err
	}
	accepted = true
	return c, nil
}

func (s *Socket) acceptError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.f.reporter.AcceptOutcome(metrics.OutcomeCanceled)
		return ctxErr
	}
	s.f.reporter.AcceptOutcome(metrics.OutcomeError)
	return types.NewTransportError("accept", err)
}

// adopt 用已接受的句柄创建子 socket
//
// 工厂已关闭时返回 ErrFactoryClosed，句柄由调用方释放。
func (s *Socket) adopt(h interfaces.RfcommHandle) (*Socket, error) {
	child := s.f.newSocket(KindAccepted, h)
	if peer, ok := h.PeerAddress(); ok {
		child.remote = peer
	} else {
		logger.Debug("传输未提供对端地址", "id", s.id)
	}
	child.channel = s.Channel()
	if err := s.f.track(child); err != nil {
		child.abandon()
		return nil, err
	}
	s.f.reporter.AcceptOutcome(metrics.OutcomeSuccess)

	logger.Info("已接受连接", "id", s.id, "child", child.id, "remote", child.remote)
	return child, nil
}

// ============================================================================
//                              流
// ============================================================================

// InputStream 返回输入流
//
// 连接建立前即可获取，但读取会失败直到连接完成。
func (s *Socket) InputStream() (io.ReadCloser, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed.Load() {
		return nil, ErrSocketClosed
	}
	return s.handle.InputStream()
}

// OutputStream 返回输出流
func (s *Socket) OutputStream() (io.WriteCloser, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed.Load() {
		return nil, ErrSocketClosed
	}
	return s.handle.OutputStream()
}

// ============================================================================
//                              Close
// ============================================================================

// Close 关闭 socket
//
// 可并发、可重复调用。清理过程中的次要错误只记录日志，不返回。
func (s *Socket) Close() error {
	// 取消阶段：共享角色，与进行中的阻塞调用并发
	s.lock.RLock()
	if s.closed.Load() {
		s.lock.RUnlock()
		return nil
	}
	s.cancel()
	s.cancelPending()
	err := multierr.Combine(
		s.handle.ShutdownInput(),
		s.handle.ShutdownOutput(),
		s.handle.Shutdown(),
	)
	s.lock.RUnlock()

	if err != nil {
		logger.Debug("关闭传输时出错", "id", s.id, "errs", len(multierr.Errors(err)), "err", err)
	}

	// 释放阶段：独占角色
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.handle.Destroy()
	s.f.forget(s)

	logger.Debug("socket 已关闭", "id", s.id, "kind", s.kind)
	return nil
}

// ============================================================================
//                              内部方法
// ============================================================================

// abandon 将未登记的 socket 直接置为已关闭，句柄由调用方释放
func (s *Socket) abandon() {
	s.cancel()
	s.closed.Store(true)
}

// closing 已关闭或 close 已进入取消阶段
func (s *Socket) closing() bool {
	return s.closed.Load() || s.token.Err() != nil
}

// withToken 返回在调用方 ctx 结束或 socket 被关闭时取消的 context
func (s *Socket) withToken(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(s.token, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Socket) setChannel(ch types.Channel) {
	s.chanMu.Lock()
	s.channel = ch
	s.chanMu.Unlock()
}

func (s *Socket) failureOutcome() string {
	if s.closing() {
		return metrics.OutcomeClosed
	}
	return metrics.OutcomeError
}
