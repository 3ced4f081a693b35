package delegated

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dep2p/go-rfcomm/internal/core/delegate"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// TargetName 绑定的目标能力名
const TargetName = "rfcomm.Handle"

// ErrForeignChild accept 的子句柄不是委托句柄
var ErrForeignChild = errors.New("delegated: child handle is not a delegated handle")

// 方法描述符
var (
	methodCreate         = delegate.Method("create")
	methodConnect        = delegate.Method("connect", "context", "address", "channel")
	methodBind           = delegate.Method("bind", "channel")
	methodListen         = delegate.Method("listen", "int")
	methodAccept         = delegate.Method("accept", "context", "handle", "duration")
	methodShutdownInput  = delegate.Method("shutdownInput")
	methodShutdownOutput = delegate.Method("shutdownOutput")
	methodShutdown       = delegate.Method("shutdown")
	methodDestroy        = delegate.Method("destroy")
	methodIsConnected    = delegate.Method("isConnected")
	methodInputStream    = delegate.Method("getInputStream")
	methodOutputStream   = delegate.Method("getOutputStream")
	methodAddress        = delegate.Method("getAddress")
	methodPort           = delegate.Method("getPort")
)

// Handle 基于委托绑定的 RfcommHandle
type Handle struct {
	b *delegate.Binding
}

var _ interfaces.RfcommHandle = (*Handle)(nil)

// Wrap 用绑定创建句柄
func Wrap(b *delegate.Binding) *Handle {
	return &Handle{b: b}
}

// Binding 返回底层绑定
func (h *Handle) Binding() *delegate.Binding {
	return h.b
}

// Create 实现 interfaces.RfcommHandle
func (h *Handle) Create() error {
	return optional(h.b.Invoke(methodCreate))
}

// Connect 实现 interfaces.RfcommHandle
func (h *Handle) Connect(ctx context.Context, addr types.Address, ch types.Channel) error {
	_, err := h.b.Call(methodConnect, ctx, addr, ch)
	return err
}

// Bind 实现 interfaces.RfcommHandle
func (h *Handle) Bind(ch types.Channel) error {
	_, err := h.b.Call(methodBind, ch)
	return err
}

// Listen 实现 interfaces.RfcommHandle
func (h *Handle) Listen(backlog int) error {
	_, err := h.b.Call(methodListen, backlog)
	return err
}

// Accept 实现 interfaces.RfcommHandle
//
// 子句柄必须同为委托句柄，底层方法收到的是子句柄绑定的实例。
func (h *Handle) Accept(ctx context.Context, child interfaces.RfcommHandle, timeout time.Duration) (bool, error) {
	c, ok := child.(*Handle)
	if !ok {
		return false, ErrForeignChild
	}
	v, err := h.b.Call(methodAccept, ctx, c.b.Instance(), timeout)
	if err != nil {
		return false, err
	}
	accepted, _ := v.(bool)
	return accepted, nil
}

// ShutdownInput 实现 interfaces.RfcommHandle
func (h *Handle) ShutdownInput() error {
	return optional(h.b.Invoke(methodShutdownInput))
}

// ShutdownOutput 实现 interfaces.RfcommHandle
func (h *Handle) ShutdownOutput() error {
	return optional(h.b.Invoke(methodShutdownOutput))
}

// Shutdown 实现 interfaces.RfcommHandle
func (h *Handle) Shutdown() error {
	return optional(h.b.Invoke(methodShutdown))
}

// Destroy 实现 interfaces.RfcommHandle
func (h *Handle) Destroy() {
	_ = optional(h.b.Invoke(methodDestroy))
}

// IsConnected 实现 interfaces.RfcommHandle
func (h *Handle) IsConnected() bool {
	v, _ := delegate.As[bool](h.b.Invoke(methodIsConnected))
	return v
}

// InputStream 实现 interfaces.RfcommHandle
func (h *Handle) InputStream() (io.ReadCloser, error) {
	v, err := h.b.Call(methodInputStream)
	if err != nil {
		return nil, err
	}
	r, ok := v.(io.ReadCloser)
	if !ok {
		return nil, fmt.Errorf("delegated: %s returned %T", methodInputStream, v)
	}
	return r, nil
}

// OutputStream 实现 interfaces.RfcommHandle
func (h *Handle) OutputStream() (io.WriteCloser, error) {
	v, err := h.b.Call(methodOutputStream)
	if err != nil {
		return nil, err
	}
	w, ok := v.(io.WriteCloser)
	if !ok {
		return nil, fmt.Errorf("delegated: %s returned %T", methodOutputStream, v)
	}
	return w, nil
}

// PeerAddress 实现 interfaces.RfcommHandle
func (h *Handle) PeerAddress() (types.Address, bool) {
	addr, ok := delegate.As[types.Address](h.b.Invoke(methodAddress))
	if !ok || addr.IsZero() {
		return types.ZeroAddress, false
	}
	return addr, true
}

// Channel 返回绑定的本地信道，能力缺失时为 InvalidChannel
func (h *Handle) Channel() types.Channel {
	ch, ok := delegate.As[types.Channel](h.b.Invoke(methodPort))
	if !ok {
		return types.InvalidChannel
	}
	return ch
}

// optional 能力缺失视为成功
func optional(r delegate.Result) error {
	if r.Unsupported() {
		return nil
	}
	return r.Error()
}
