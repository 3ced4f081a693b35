package config

import (
	"errors"
	"fmt"
	"time"
)

// 回退策略名称
const (
	// FallbackDefaultChannel 未得到有效信道时回退到固定信道（兼容旧行为）
	FallbackDefaultChannel = "default-channel"

	// FallbackFail 未得到有效信道时返回错误
	FallbackFail = "fail"
)

// DiscoveryConfig 服务发现配置
type DiscoveryConfig struct {
	// Timeout 等待查询结果的上限
	Timeout Duration `json:"timeout"`

	// Fallback 未得到有效信道时的策略
	//
	// 旧实现在超时或查询失败时都静默回退到固定信道，
	// 这会掩盖真实的发现失败，因此做成可配置。
	Fallback string `json:"fallback"`

	// FallbackChannel 回退使用的信道
	FallbackChannel int `json:"fallback_channel"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Timeout:         Duration(12 * time.Second),
		Fallback:        FallbackDefaultChannel,
		FallbackChannel: 1,
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	switch c.Fallback {
	case FallbackDefaultChannel:
		if c.FallbackChannel < 1 || c.FallbackChannel > 30 {
			return fmt.Errorf("fallback channel %d out of range [1, 30]", c.FallbackChannel)
		}
	case FallbackFail:
	default:
		return fmt.Errorf("unknown fallback policy %q", c.Fallback)
	}
	return nil
}
