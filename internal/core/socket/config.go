package socket

import (
	"fmt"
	"time"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// Infinite 表示 accept 无限等待
const Infinite time.Duration = -1

// Config socket 配置
type Config struct {
	// AcceptPollInterval 无限 accept 每次有界等待的时长
	AcceptPollInterval time.Duration

	// DefaultChannel 客户端未指定服务标识和信道时使用的信道
	DefaultChannel types.Channel

	// ListenChannel 服务端绑定的信道，AnyChannel 表示任选
	ListenChannel types.Channel

	// Backlog 监听队列长度，负数表示传输默认值
	Backlog int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		AcceptPollInterval: 500 * time.Millisecond,
		DefaultChannel:     types.InvalidChannel,
		ListenChannel:      types.AnyChannel,
		Backlog:            -1,
	}
}

// ConfigFromUnified 从统一配置创建 socket 配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if d := cfg.Socket.AcceptPollInterval.Duration(); d > 0 {
		c.AcceptPollInterval = d
	}
	if cfg.Socket.DefaultChannel > 0 {
		c.DefaultChannel = types.Channel(cfg.Socket.DefaultChannel)
	}
	c.ListenChannel = types.Channel(cfg.Socket.ListenChannel)
	c.Backlog = cfg.Transport.Backlog
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.AcceptPollInterval <= 0 {
		return fmt.Errorf("socket: accept poll interval must be positive")
	}
	if c.DefaultChannel != types.InvalidChannel {
		if err := c.DefaultChannel.Validate(); err != nil {
			return fmt.Errorf("socket: default channel: %w", err)
		}
	}
	if c.ListenChannel != types.AnyChannel {
		if err := c.ListenChannel.Validate(); err != nil {
			return fmt.Errorf("socket: listen channel: %w", err)
		}
	}
	return nil
}
