package memory

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// defaultBacklog Listen 使用的默认队列长度
const defaultBacklog = 8

// pendingConn 状态
const (
	pendingWaiting = iota
	pendingAccepted
	pendingAbandoned
)

// pendingConn 等待被 accept 的入站连接
type pendingConn struct {
	from     types.Address
	conn     net.Conn
	accepted chan struct{}

	mu    sync.Mutex
	state int
}

// claim 由 accept 方调用，连接方已放弃时返回 false
func (pc *pendingConn) claim() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.state != pendingWaiting {
		return false
	}
	pc.state = pendingAccepted
	close(pc.accepted)
	return true
}

// abandon 由连接方调用，已被 accept 时返回 false
func (pc *pendingConn) abandon() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.state != pendingWaiting {
		return false
	}
	pc.state = pendingAbandoned
	return true
}

// Handle 内存 RFCOMM 句柄
type Handle struct {
	dev *Device

	mu        sync.Mutex
	created   bool
	destroyed bool
	channel   types.Channel
	backlog   chan *pendingConn
	conn      net.Conn
	peer      types.Address
	hasPeer   bool
	inShut    bool
	outShut   bool

	done     chan struct{}
	doneOnce sync.Once
}

var _ interfaces.RfcommHandle = (*Handle)(nil)

// Create 实现 interfaces.RfcommHandle
func (h *Handle) Create() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrShutdown
	}
	h.created = true
	return nil
}

// Channel 返回绑定的信道，未绑定时为 InvalidChannel
func (h *Handle) Channel() types.Channel {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.channel == 0 {
		return types.InvalidChannel
	}
	return h.channel
}

// Connect 实现 interfaces.RfcommHandle
//
// 阻塞到对端 accept、ctx 结束或本句柄 Shutdown。
func (h *Handle) Connect(ctx context.Context, addr types.Address, ch types.Channel) error {
	if h.isShut() {
		return ErrShutdown
	}
	h.mu.Lock()
	connected := h.conn != nil
	h.mu.Unlock()
	if connected {
		return ErrAlreadyConnected
	}

	remote, ok := h.dev.hub.lookupDevice(addr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrHostDown, addr)
	}
	l, ok := remote.listener(ch)
	if !ok || !l.isListening() {
		return fmt.Errorf("%w: %s channel %s", ErrConnRefused, addr, ch)
	}

	local, peerEnd := net.Pipe()
	pc := &pendingConn{
		from:     h.dev.addr,
		conn:     peerEnd,
		accepted: make(chan struct{}),
	}

	abort := func(err error) error {
		_ = local.Close()
		_ = peerEnd.Close()
		return err
	}

	select {
	case l.backlog <- pc:
	case <-l.done:
		return abort(fmt.Errorf("%w: %s channel %s", ErrConnRefused, addr, ch))
	case <-h.done:
		return abort(ErrShutdown)
	case <-ctx.Done():
		return abort(ctx.Err())
	}

	// 已进入队列：放弃前先撤回，撤回失败说明对端已经 accept
	var failed error
	select {
	case <-pc.accepted:
	case <-l.done:
		failed = fmt.Errorf("%w: %s channel %s", ErrConnRefused, addr, ch)
	case <-h.done:
		failed = ErrShutdown
	case <-ctx.Done():
		failed = ctx.Err()
	}
	if failed != nil && pc.abandon() {
		return abort(failed)
	}

	if !h.attach(local, addr) {
		return abort(ErrShutdown)
	}
	logger.Debug("连接已建立", "local", h.dev.addr, "remote", addr, "channel", ch)
	return nil
}

// Bind 实现 interfaces.RfcommHandle
func (h *Handle) Bind(ch types.Channel) error {
	if h.isShut() {
		return ErrShutdown
	}
	h.mu.Lock()
	bound := h.channel != 0
	h.mu.Unlock()
	if bound {
		return fmt.Errorf("%w: handle already bound", ErrAddrInUse)
	}

	got, err := h.dev.bind(ch, h)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.channel = got
	h.mu.Unlock()
	return nil
}

// Listen 实现 interfaces.RfcommHandle
func (h *Handle) Listen(backlog int) error {
	if h.isShut() {
		return ErrShutdown
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.channel == 0 {
		return ErrNotBound
	}
	if h.backlog != nil {
		return nil
	}
	if backlog < 1 {
		backlog = defaultBacklog
	}
	h.backlog = make(chan *pendingConn, backlog)
	logger.Debug("开始监听", "addr", h.dev.addr, "channel", h.channel)
	return nil
}

// Accept 实现 interfaces.RfcommHandle
func (h *Handle) Accept(ctx context.Context, child interfaces.RfcommHandle, timeout time.Duration) (bool, error) {
	c, ok := child.(*Handle)
	if !ok {
		return false, ErrForeignHandle
	}
	h.mu.Lock()
	backlog := h.backlog
	h.mu.Unlock()
	if backlog == nil {
		return false, ErrNotListening
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	for {
		select {
		case pc := <-backlog:
			if !pc.claim() {
				// 连接方已放弃
				_ = pc.conn.Close()
				continue
			}
			if !c.attach(pc.conn, pc.from) {
				_ = pc.conn.Close()
				return false, ErrShutdown
			}
			return true, nil
		case <-expired:
			return false, nil
		case <-h.done:
			return false, ErrShutdown
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// ShutdownInput 实现 interfaces.RfcommHandle
func (h *Handle) ShutdownInput() error {
	h.mu.Lock()
	h.inShut = true
	h.mu.Unlock()
	return nil
}

// ShutdownOutput 实现 interfaces.RfcommHandle
func (h *Handle) ShutdownOutput() error {
	h.mu.Lock()
	h.outShut = true
	h.mu.Unlock()
	return nil
}

// Shutdown 实现 interfaces.RfcommHandle
//
// 释放信道、关闭连接并打断所有阻塞调用。
func (h *Handle) Shutdown() error {
	h.doneOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	conn := h.conn
	ch := h.channel
	h.inShut, h.outShut = true, true
	h.mu.Unlock()

	if ch != 0 {
		h.dev.release(ch, h)
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Destroy 实现 interfaces.RfcommHandle
func (h *Handle) Destroy() {
	_ = h.Shutdown()
	h.mu.Lock()
	h.destroyed = true
	h.mu.Unlock()
}

// IsConnected 实现 interfaces.RfcommHandle
func (h *Handle) IsConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn != nil && !h.destroyed && !(h.inShut && h.outShut)
}

// InputStream 实现 interfaces.RfcommHandle
func (h *Handle) InputStream() (io.ReadCloser, error) {
	return &inputStream{h: h}, nil
}

// OutputStream 实现 interfaces.RfcommHandle
func (h *Handle) OutputStream() (io.WriteCloser, error) {
	return &outputStream{h: h}, nil
}

// PeerAddress 实现 interfaces.RfcommHandle
func (h *Handle) PeerAddress() (types.Address, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.peer, h.hasPeer
}

func (h *Handle) attach(conn net.Conn, peer types.Address) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed || h.isShut() {
		return false
	}
	h.conn = conn
	h.peer = peer
	h.hasPeer = true
	return true
}

func (h *Handle) isListening() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.backlog != nil
}

func (h *Handle) isShut() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ============================================================================
//                              流
// ============================================================================

// inputStream 在每次读取时取当前连接，连接建立前读取失败
type inputStream struct {
	h *Handle
}

func (s *inputStream) Read(p []byte) (int, error) {
	s.h.mu.Lock()
	conn, shut := s.h.conn, s.h.inShut
	s.h.mu.Unlock()
	if shut {
		return 0, io.EOF
	}
	if conn == nil {
		return 0, types.ErrNotConnected
	}
	return conn.Read(p)
}

func (s *inputStream) Close() error {
	return s.h.ShutdownInput()
}

type outputStream struct {
	h *Handle
}

func (s *outputStream) Write(p []byte) (int, error) {
	s.h.mu.Lock()
	conn, shut := s.h.conn, s.h.outShut
	s.h.mu.Unlock()
	if shut {
		return 0, io.ErrClosedPipe
	}
	if conn == nil {
		return 0, types.ErrNotConnected
	}
	return conn.Write(p)
}

func (s *outputStream) Close() error {
	return s.h.ShutdownOutput()
}
