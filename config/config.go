// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义：
//   - socket.go    - Socket 生命周期（accept 轮询间隔、默认信道）
//   - discovery.go - 服务发现（等待上限、回退策略）
//   - transport.go - 传输句柄（原生/委托模式、监听 backlog）
//   - metrics.go   - 指标
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Discovery.Timeout = config.Duration(5 * time.Second)
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config 是 go-rfcomm 的完整配置结构
type Config struct {
	// Socket socket 生命周期配置
	Socket SocketConfig `json:"socket"`

	// Discovery 服务发现配置
	Discovery DiscoveryConfig `json:"discovery"`

	// Transport 传输配置
	Transport TransportConfig `json:"transport"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Socket:    DefaultSocketConfig(),
		Discovery: DefaultDiscoveryConfig(),
		Transport: DefaultTransportConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Socket.Validate(); err != nil {
		return fmt.Errorf("socket: %w", err)
	}
	if err := c.Discovery.Validate(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

// FromJSON 从 JSON 加载配置
//
// 未出现在 JSON 中的字段保留默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 序列化配置
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
