package transport

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/internal/core/delegate"
	"github.com/dep2p/go-rfcomm/internal/core/transport/delegated"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/lib/log"
)

var logger = log.Logger("core/transport")

// Source 可同时以原生和委托方式驱动的传输来源
type Source interface {
	interfaces.Transport

	// Describe 返回底层平台对象的类型描述
	Describe() *delegate.Type

	// NewInstance 创建一个底层平台对象
	NewInstance() (any, error)
}

// Config 传输配置
type Config struct {
	// Mode config.TransportNative 或 config.TransportDelegated
	Mode string
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{Mode: config.TransportNative}
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil || cfg.Transport.Mode == "" {
		return NewConfig()
	}
	return Config{Mode: cfg.Transport.Mode}
}

// New 按模式创建传输
func New(cfg Config, src Source) (interfaces.Transport, error) {
	if src == nil {
		return nil, ErrNoSource
	}

	switch cfg.Mode {
	case config.TransportNative, "":
		logger.Debug("使用原生传输")
		return src, nil

	case config.TransportDelegated:
		typ := src.Describe()
		reg := delegate.NewRegistry()
		for _, t := range typ.Chain() {
			if err := reg.Register(t); err != nil {
				return nil, fmt.Errorf("register %s: %w", t.Name, err)
			}
		}
		tr, err := delegated.NewTransportByName(reg, typ.Name, src.NewInstance)
		if err != nil {
			return nil, err
		}
		logger.Debug("使用委托传输", "type", typ.Name)
		return tr, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}

// Params 传输依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Source     Source         `optional:"true"`
}

// Module 返回 Fx 模块
//
// 只有注入了 Source 时才需要该模块；直接提供 interfaces.Transport 时可省略。
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(ProvideTransport),
	)
}

// ProvideTransport 提供传输
func ProvideTransport(p Params) (interfaces.Transport, error) {
	return New(ConfigFromUnified(p.UnifiedCfg), p.Source)
}
