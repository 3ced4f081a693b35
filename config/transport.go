package config

import "fmt"

// 传输模式
const (
	// TransportNative 直接使用传输实现的 Go 接口
	TransportNative = "native"

	// TransportDelegated 通过委托引擎转发到平台传输对象
	TransportDelegated = "delegated"
)

// TransportConfig 传输配置
type TransportConfig struct {
	// Mode 传输模式：native 或 delegated
	Mode string `json:"mode"`

	// Backlog 监听队列长度，负数表示使用传输默认值
	Backlog int `json:"backlog"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Mode:    TransportNative,
		Backlog: -1,
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	switch c.Mode {
	case TransportNative, TransportDelegated:
		return nil
	default:
		return fmt.Errorf("unknown transport mode %q", c.Mode)
	}
}
