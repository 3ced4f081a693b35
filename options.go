package rfcomm

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/internal/core/transport"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// 传输：二选一
	transport interfaces.Transport
	source    transport.Source

	directory  interfaces.ServiceDirectory
	registerer prometheus.Registerer

	// 扩展 Fx 选项
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{config: config.NewConfig()}
}

func (o *options) validate() error {
	if o.transport == nil && o.source == nil {
		return errors.New("rfcomm: a transport is required (WithTransport or WithSource)")
	}
	if o.transport != nil && o.source != nil {
		return errors.New("rfcomm: WithTransport and WithSource are mutually exclusive")
	}
	if o.transport != nil && o.config.Transport.Mode == config.TransportDelegated {
		return errors.New("rfcomm: delegated mode requires WithSource")
	}
	return o.config.Validate()
}

// WithConfig 使用完整配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("rfcomm: nil config")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithTransport 使用原生传输
func WithTransport(tr interfaces.Transport) Option {
	return func(o *options) error {
		o.transport = tr
		return nil
	}
}

// WithSource 使用可委托的传输来源，模式由配置决定
func WithSource(src transport.Source) Option {
	return func(o *options) error {
		o.source = src
		return nil
	}
}

// WithDirectory 设置 SDP 服务目录
func WithDirectory(dir interfaces.ServiceDirectory) Option {
	return func(o *options) error {
		o.directory = dir
		return nil
	}
}

// WithRegisterer 把指标注册到 Prometheus Registerer
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithDelegation 切换原生/委托传输模式
func WithDelegation(enable bool) Option {
	return func(o *options) error {
		if enable {
			o.config.Transport.Mode = config.TransportDelegated
		} else {
			o.config.Transport.Mode = config.TransportNative
		}
		return nil
	}
}

// WithDiscoveryTimeout 设置服务发现等待上限
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("rfcomm: discovery timeout must be positive, got %s", d)
		}
		o.config.Discovery.Timeout = config.Duration(d)
		return nil
	}
}

// WithStrictDiscovery 服务发现未得到有效信道时返回错误，而不是回退到默认信道
func WithStrictDiscovery() Option {
	return func(o *options) error {
		o.config.Discovery.Fallback = config.FallbackFail
		return nil
	}
}

// WithAcceptPollInterval 设置无限 accept 的轮询间隔
func WithAcceptPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("rfcomm: accept poll interval must be positive, got %s", d)
		}
		o.config.Socket.AcceptPollInterval = config.Duration(d)
		return nil
	}
}

// WithFxOption 追加 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
