package sdp

import (
	"fmt"
	"time"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// Policy 未得到有效信道时的回退策略
type Policy int

const (
	// PolicyDefaultChannel 回退到固定信道
	PolicyDefaultChannel Policy = iota
	// PolicyFail 返回 ErrFailed
	PolicyFail
)

// String 返回策略名
func (p Policy) String() string {
	switch p {
	case PolicyDefaultChannel:
		return config.FallbackDefaultChannel
	case PolicyFail:
		return config.FallbackFail
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy 解析策略名
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case config.FallbackDefaultChannel, "":
		return PolicyDefaultChannel, nil
	case config.FallbackFail:
		return PolicyFail, nil
	default:
		return 0, fmt.Errorf("sdp: unknown fallback policy %q", s)
	}
}

// Config 服务发现配置
type Config struct {
	// Timeout 等待查询结果的上限
	Timeout time.Duration

	// Fallback 回退策略
	Fallback Policy

	// FallbackChannel 回退信道
	FallbackChannel types.Channel
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Timeout:         12 * time.Second,
		Fallback:        PolicyDefaultChannel,
		FallbackChannel: 1,
	}
}

// ConfigFromUnified 从统一配置创建服务发现配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if d := cfg.Discovery.Timeout.Duration(); d > 0 {
		c.Timeout = d
	}
	if p, err := ParsePolicy(cfg.Discovery.Fallback); err == nil {
		c.Fallback = p
	}
	if cfg.Discovery.FallbackChannel > 0 {
		c.FallbackChannel = types.Channel(cfg.Discovery.FallbackChannel)
	}
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("sdp: timeout must be positive")
	}
	if c.Fallback == PolicyDefaultChannel {
		if err := c.FallbackChannel.Validate(); err != nil {
			return fmt.Errorf("sdp: fallback channel: %w", err)
		}
	}
	return nil
}
