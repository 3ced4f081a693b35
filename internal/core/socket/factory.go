package socket

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/dep2p/go-rfcomm/internal/core/metrics"
	"github.com/dep2p/go-rfcomm/internal/core/sdp"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// Factory 创建 socket 并跟踪存活的 socket
type Factory struct {
	transport interfaces.Transport
	resolver  *sdp.Resolver
	cfg       Config
	reporter  metrics.Reporter

	nextID atomic.Uint64
	closed atomic.Bool

	mu   sync.Mutex
	live map[*Socket]struct{}
}

// FactoryOption 工厂选项
type FactoryOption func(*Factory)

// WithReporter 设置指标 Reporter
func WithReporter(r metrics.Reporter) FactoryOption {
	return func(f *Factory) {
		f.reporter = metrics.OrNop(r)
	}
}

// NewFactory 创建 socket 工厂
//
// resolver 可以为 nil，此时带服务标识的连接以 ErrDiscoveryStartFailed 失败。
func NewFactory(tr interfaces.Transport, resolver *sdp.Resolver, cfg Config, opts ...FactoryOption) (*Factory, error) {
	if tr == nil {
		return nil, ErrNoTransport
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if resolver == nil {
		resolver = sdp.NewResolver(nil, sdp.DefaultConfig())
	}
	f := &Factory{
		transport: tr,
		resolver:  resolver,
		cfg:       cfg,
		reporter:  metrics.Nop{},
		live:      make(map[*Socket]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Config 返回配置
func (f *Factory) Config() Config {
	return f.cfg
}

// NewClient 创建客户端 socket
//
// serviceID 为 nil 时跳过服务发现，使用 WithChannel 或配置中的默认信道。
func (f *Factory) NewClient(remote types.Address, serviceID *types.ServiceID, opts ...ClientOption) (*Socket, error) {
	o := clientOptions{channel: f.cfg.DefaultChannel}
	for _, opt := range opts {
		opt(&o)
	}

	h, err := f.openHandle()
	if err != nil {
		return nil, err
	}

	s := f.newSocket(KindClient, h)
	s.remote = remote
	if serviceID != nil {
		id := *serviceID
		s.serviceID = &id
	}
	s.channel = o.channel
	if err := f.track(s); err != nil {
		s.abandon()
		h.Destroy()
		return nil, err
	}

	logger.Debug("客户端 socket 已创建", "id", s.id, "remote", remote, "uuid", s.serviceID)
	return s, nil
}

// NewServer 创建服务端 socket
//
// ch 为 AnyChannel 时使用配置的 ListenChannel；两者都是 AnyChannel 时由传输选择空闲信道。
func (f *Factory) NewServer(ch types.Channel) (*Socket, error) {
	if ch == types.AnyChannel {
		ch = f.cfg.ListenChannel
	}
	if ch != types.AnyChannel {
		if err := ch.Validate(); err != nil {
			return nil, err
		}
	}

	h, err := f.openHandle()
	if err != nil {
		return nil, err
	}

	s := f.newSocket(KindServer, h)
	s.listenChannel = ch
	if err := f.track(s); err != nil {
		s.abandon()
		h.Destroy()
		return nil, err
	}

	logger.Debug("服务端 socket 已创建", "id", s.id, "channel", ch)
	return s, nil
}

// NewSocketFromHandle 从外部提供的句柄创建 socket
//
// 不支持：句柄的所有权与生命周期无法由本工厂保证。
func (f *Factory) NewSocketFromHandle(_ any) (*Socket, error) {
	return nil, fmt.Errorf("socket from external handle: %w", ErrUnsupported)
}

// Live 返回存活的 socket 数
func (f *Factory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// Close 关闭工厂及其创建的所有 socket
func (f *Factory) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	sockets := make([]*Socket, 0, len(f.live))
	for s := range f.live {
		sockets = append(sockets, s)
	}
	f.mu.Unlock()

	var err error
	for _, s := range sockets {
		err = multierr.Append(err, s.Close())
	}
	logger.Debug("socket 工厂已关闭", "sockets", len(sockets))
	return err
}

// openHandle 打开并初始化一个传输句柄
func (f *Factory) openHandle() (interfaces.RfcommHandle, error) {
	if f.closed.Load() {
		return nil, ErrFactoryClosed
	}
	h, err := f.transport.Open()
	if err != nil {
		return nil, types.NewTransportError("open", err)
	}
	if err := h.Create(); err != nil {
		h.Destroy()
		return nil, types.NewTransportError("create", err)
	}
	return h, nil
}

func (f *Factory) newSocket(kind Kind, h interfaces.RfcommHandle) *Socket {
	token, cancel := context.WithCancel(context.Background())
	return &Socket{
		f:             f,
		id:            f.nextID.Add(1),
		kind:          kind,
		handle:        h,
		token:         token,
		cancel:        cancel,
		channel:       types.InvalidChannel,
		listenChannel: types.AnyChannel,
	}
}

// track 登记存活 socket
//
// 与 Close 的快照在 f.mu 下互斥：Close 之后登记的 socket 不会被遗漏。
func (f *Factory) track(s *Socket) error {
	f.mu.Lock()
	if f.closed.Load() {
		f.mu.Unlock()
		return ErrFactoryClosed
	}
	f.live[s] = struct{}{}
	f.mu.Unlock()
	f.reporter.SocketOpened()
	return nil
}

func (f *Factory) forget(s *Socket) {
	f.mu.Lock()
	delete(f.live, s)
	f.mu.Unlock()
	f.reporter.SocketClosed()
}
