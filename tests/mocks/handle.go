package mocks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// ErrMockShutdown 默认实现中阻塞调用因 Shutdown 返回的错误
var ErrMockShutdown = errors.New("mock handle shut down")

// MockHandle 模拟 RfcommHandle 接口实现
type MockHandle struct {
	// 基本属性
	Peer      types.Address
	HasPeer   bool
	Connected bool

	// 可覆盖的方法
	CreateFunc         func() error
	ConnectFunc        func(ctx context.Context, addr types.Address, ch types.Channel) error
	BindFunc           func(ch types.Channel) error
	ListenFunc         func(backlog int) error
	AcceptFunc         func(ctx context.Context, child interfaces.RfcommHandle, timeout time.Duration) (bool, error)
	ShutdownInputFunc  func() error
	ShutdownOutputFunc func() error
	ShutdownFunc       func() error
	DestroyFunc        func()
	PeerAddressFunc    func() (types.Address, bool)

	mu         sync.Mutex
	calls      map[string]int
	connects   []ConnectCall
	shutdownCh chan struct{}
	shutOnce   sync.Once
	in         bytes.Buffer
	out        bytes.Buffer
}

// ConnectCall 记录 Connect 调用
type ConnectCall struct {
	Addr    types.Address
	Channel types.Channel
}

// NewMockHandle 创建带有默认值的 MockHandle
func NewMockHandle() *MockHandle {
	return &MockHandle{
		calls:      make(map[string]int),
		shutdownCh: make(chan struct{}),
	}
}

func (m *MockHandle) record(op string) {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()
}

// Calls 返回某个方法的调用次数
func (m *MockHandle) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// ConnectCalls 返回 Connect 调用记录
func (m *MockHandle) ConnectCalls() []ConnectCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ConnectCall(nil), m.connects...)
}

// ShutdownCh Shutdown 后关闭
func (m *MockHandle) ShutdownCh() <-chan struct{} {
	return m.shutdownCh
}

// Create 初始化
func (m *MockHandle) Create() error {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc()
	}
	return nil
}

// Connect 连接
func (m *MockHandle) Connect(ctx context.Context, addr types.Address, ch types.Channel) error {
	m.mu.Lock()
	m.calls["Connect"]++
	m.connects = append(m.connects, ConnectCall{Addr: addr, Channel: ch})
	m.mu.Unlock()

	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx, addr, ch)
	}
	m.mu.Lock()
	m.Connected = true
	m.mu.Unlock()
	return nil
}

// Bind 绑定信道
func (m *MockHandle) Bind(ch types.Channel) error {
	m.record("Bind")
	if m.BindFunc != nil {
		return m.BindFunc(ch)
	}
	return nil
}

// Listen 监听
func (m *MockHandle) Listen(backlog int) error {
	m.record("Listen")
	if m.ListenFunc != nil {
		return m.ListenFunc(backlog)
	}
	return nil
}

// Accept 接受连接
//
// 默认阻塞到 timeout 到期（返回 false）或 Shutdown（返回 ErrMockShutdown）。
func (m *MockHandle) Accept(ctx context.Context, child interfaces.RfcommHandle, timeout time.Duration) (bool, error) {
	m.record("Accept")
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, child, timeout)
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case <-expired:
		return false, nil
	case <-m.shutdownCh:
		return false, ErrMockShutdown
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// ShutdownInput 关闭输入
func (m *MockHandle) ShutdownInput() error {
	m.record("ShutdownInput")
	if m.ShutdownInputFunc != nil {
		return m.ShutdownInputFunc()
	}
	return nil
}

// ShutdownOutput 关闭输出
func (m *MockHandle) ShutdownOutput() error {
	m.record("ShutdownOutput")
	if m.ShutdownOutputFunc != nil {
		return m.ShutdownOutputFunc()
	}
	return nil
}

// Shutdown 关闭信道
func (m *MockHandle) Shutdown() error {
	m.record("Shutdown")
	m.shutOnce.Do(func() { close(m.shutdownCh) })
	if m.ShutdownFunc != nil {
		return m.ShutdownFunc()
	}
	return nil
}

// Destroy 释放资源
func (m *MockHandle) Destroy() {
	m.record("Destroy")
	if m.DestroyFunc != nil {
		m.DestroyFunc()
	}
}

// IsConnected 检查连接状态
func (m *MockHandle) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Connected
}

// InputStream 返回输入流
func (m *MockHandle) InputStream() (io.ReadCloser, error) {
	m.record("InputStream")
	return io.NopCloser(&m.in), nil
}

// OutputStream 返回输出流
func (m *MockHandle) OutputStream() (io.WriteCloser, error) {
	m.record("OutputStream")
	return nopWriteCloser{&m.out}, nil
}

// PeerAddress 返回对端地址
func (m *MockHandle) PeerAddress() (types.Address, bool) {
	if m.PeerAddressFunc != nil {
		return m.PeerAddressFunc()
	}
	return m.Peer, m.HasPeer
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

var _ interfaces.RfcommHandle = (*MockHandle)(nil)
