package config

import (
	"errors"
	"time"
)

// SocketConfig socket 生命周期配置
type SocketConfig struct {
	// AcceptPollInterval 无限等待 accept 时每次有界等待的时长
	//
	// close() 打断无限 accept 的最长延迟约为一个轮询间隔。
	AcceptPollInterval Duration `json:"accept_poll_interval"`

	// DefaultChannel 未指定服务标识时客户端使用的预置信道
	// 0 表示未配置
	DefaultChannel int `json:"default_channel,omitempty"`

	// ListenChannel 服务端绑定的信道，0 表示任选空闲信道
	ListenChannel int `json:"listen_channel,omitempty"`
}

// DefaultSocketConfig 返回默认 socket 配置
func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		AcceptPollInterval: Duration(500 * time.Millisecond),
	}
}

// Validate 验证 socket 配置
func (c SocketConfig) Validate() error {
	if c.AcceptPollInterval <= 0 {
		return errors.New("accept poll interval must be positive")
	}
	if c.DefaultChannel < 0 || c.DefaultChannel > 30 {
		return errors.New("default channel must be within [0, 30]")
	}
	if c.ListenChannel < 0 || c.ListenChannel > 30 {
		return errors.New("listen channel must be within [0, 30]")
	}
	return nil
}
