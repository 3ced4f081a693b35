package socket

import "github.com/dep2p/go-rfcomm/pkg/types"

// clientOptions 客户端 socket 选项
type clientOptions struct {
	channel types.Channel
}

// ClientOption 客户端 socket 选项
type ClientOption func(*clientOptions)

// WithChannel 设置预置信道
//
// 没有服务标识时 Connect 直接连接该信道。
func WithChannel(ch types.Channel) ClientOption {
	return func(o *clientOptions) {
		o.channel = ch
	}
}
