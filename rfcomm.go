package rfcomm

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-rfcomm/internal/core/socket"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// startTimeout Fx 启动/停止超时
const startTimeout = 15 * time.Second

// Stack 已启动的 RFCOMM 组件集合
type Stack struct {
	app     *fx.App
	factory *socket.Factory
	closed  atomic.Bool
}

// New 创建并启动 Stack
func New(opts ...Option) (*Stack, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	s := &Stack{}
	app, err := buildFxApp(o, &s.factory)
	if err != nil {
		return nil, err
	}
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("start app: %w", err)
	}

	s.app = app
	return s, nil
}

// NewSocket 创建客户端 socket
//
// serviceID 为 nil 时跳过服务发现，需要通过 WithChannel 或配置提供信道。
func (s *Stack) NewSocket(remote types.Address, serviceID *types.ServiceID, opts ...ClientOption) (*Socket, error) {
	return s.factory.NewClient(remote, serviceID, opts...)
}

// NewServerSocket 创建未绑定的服务端 socket
func (s *Stack) NewServerSocket(ch types.Channel) (*Socket, error) {
	return s.factory.NewServer(ch)
}

// Listen 创建服务端 socket 并绑定监听
//
// ch 为 AnyChannel 时使用配置中的 listen_channel，未配置时由传输任选空闲信道。
func (s *Stack) Listen(ch types.Channel) (*Socket, error) {
	sock, err := s.factory.NewServer(ch)
	if err != nil {
		return nil, err
	}
	if status := sock.BindListen(); !status.OK() {
		_ = sock.Close()
		return nil, fmt.Errorf("bind channel %s: status %d (%s)", ch, int(status), status)
	}
	return sock, nil
}

// NewSocketFromHandle 从外部句柄创建 socket（不支持）
func (s *Stack) NewSocketFromHandle(h any) (*Socket, error) {
	return s.factory.NewSocketFromHandle(h)
}

// Close 关闭所有 socket 并停止 Stack
func (s *Stack) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	return s.app.Stop(ctx)
}
