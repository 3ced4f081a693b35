package socket

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/internal/core/metrics"
	"github.com/dep2p/go-rfcomm/internal/core/sdp"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
)

// Params socket 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Transport  interfaces.Transport
	Resolver   *sdp.Resolver
	Reporter   metrics.Reporter `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("socket",
		fx.Provide(
			ProvideConfig,
			ProvideFactory,
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideConfig 从统一配置提供 socket 配置
func ProvideConfig(p Params) Config {
	return ConfigFromUnified(p.UnifiedCfg)
}

// ProvideFactory 提供 socket 工厂
func ProvideFactory(cfg Config, p Params) (*Factory, error) {
	return NewFactory(p.Transport, p.Resolver, cfg, WithReporter(p.Reporter))
}

// lifecycleInput 生命周期注册输入
type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Factory *Factory
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return input.Factory.Close()
		},
	})
}
