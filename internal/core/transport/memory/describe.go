package memory

import (
	"context"
	"time"

	"github.com/dep2p/go-rfcomm/internal/core/delegate"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// 底层类型名
const (
	SocketTypeName       = "memory.Socket"
	RfcommSocketTypeName = "memory.RfcommSocket"
)

// Describe 返回 Handle 的委托类型描述
//
// 形状模拟平台内部的 socket 类：通用的流与关闭方法声明在父类上，
// RFCOMM 专有方法声明在子类上，半关闭和对端地址只以非公开方法存在。
func Describe() *delegate.Type {
	base := delegate.NewType(SocketTypeName, nil,
		delegate.MethodSpec{Name: "shutdown", Public: true, Fn: func(recv any, _ []any) (any, error) {
			return nil, recv.(*Handle).Shutdown()
		}},
		delegate.MethodSpec{Name: "destroy", Public: true, Fn: func(recv any, _ []any) (any, error) {
			recv.(*Handle).Destroy()
			return nil, nil
		}},
		delegate.MethodSpec{Name: "isConnected", Public: true, Fn: func(recv any, _ []any) (any, error) {
			return recv.(*Handle).IsConnected(), nil
		}},
		delegate.MethodSpec{Name: "getInputStream", Public: true, Fn: func(recv any, _ []any) (any, error) {
			return recv.(*Handle).InputStream()
		}},
		delegate.MethodSpec{Name: "getOutputStream", Public: true, Fn: func(recv any, _ []any) (any, error) {
			return recv.(*Handle).OutputStream()
		}},
	)

	return delegate.NewType(RfcommSocketTypeName, base,
		delegate.MethodSpec{Name: "create", Public: true, Fn: func(recv any, _ []any) (any, error) {
			return nil, recv.(*Handle).Create()
		}},
		delegate.MethodSpec{
			Name:   "connect",
			Params: []string{"context", "address", "channel"},
			Public: true,
			Fn: func(recv any, args []any) (any, error) {
				return nil, recv.(*Handle).Connect(args[0].(context.Context), args[1].(types.Address), args[2].(types.Channel))
			},
		},
		delegate.MethodSpec{
			Name:   "bind",
			Params: []string{"channel"},
			Public: true,
			Fn: func(recv any, args []any) (any, error) {
				return nil, recv.(*Handle).Bind(args[0].(types.Channel))
			},
		},
		delegate.MethodSpec{
			Name:   "listen",
			Params: []string{"int"},
			Public: true,
			Fn: func(recv any, args []any) (any, error) {
				return nil, recv.(*Handle).Listen(args[0].(int))
			},
		},
		delegate.MethodSpec{
			Name:   "accept",
			Params: []string{"context", "handle", "duration"},
			Public: true,
			Fn: func(recv any, args []any) (any, error) {
				child, ok := args[1].(*Handle)
				if !ok {
					return false, ErrForeignHandle
				}
				return recv.(*Handle).Accept(args[0].(context.Context), child, args[2].(time.Duration))
			},
		},
		delegate.MethodSpec{Name: "shutdownInput", Fn: func(recv any, _ []any) (any, error) {
			return nil, recv.(*Handle).ShutdownInput()
		}},
		delegate.MethodSpec{Name: "shutdownOutput", Fn: func(recv any, _ []any) (any, error) {
			return nil, recv.(*Handle).ShutdownOutput()
		}},
		delegate.MethodSpec{Name: "getPort", Fn: func(recv any, _ []any) (any, error) {
			return recv.(*Handle).Channel(), nil
		}},
		delegate.MethodSpec{Name: "getAddress", Fn: func(recv any, _ []any) (any, error) {
			addr, ok := recv.(*Handle).PeerAddress()
			if !ok {
				return nil, types.ErrNotConnected
			}
			return addr, nil
		}},
	)
}

// Register 把 Handle 的类型描述注册到 Registry
func Register(reg *delegate.Registry) error {
	t := Describe()
	if err := reg.Register(t.Super); err != nil {
		return err
	}
	return reg.Register(t)
}
