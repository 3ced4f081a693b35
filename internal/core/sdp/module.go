package sdp

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/internal/core/metrics"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
)

// Params sdp 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config              `optional:"true"`
	Directory  interfaces.ServiceDirectory `optional:"true"`
	Reporter   metrics.Reporter            `optional:"true"`
	Clock      clock.Clock                 `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("sdp",
		fx.Provide(
			ProvideConfig,
			ProvideResolver,
		),
	)
}

// ProvideConfig 从统一配置提供 sdp 配置
func ProvideConfig(p Params) (Config, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	return cfg, cfg.Validate()
}

// ProvideResolver 提供 Resolver
//
// 未注入服务目录时仍可创建，此时带服务标识的连接会以 ErrStartFailed 失败。
func ProvideResolver(cfg Config, p Params) *Resolver {
	opts := []Option{WithReporter(p.Reporter)}
	if p.Clock != nil {
		opts = append(opts, WithClock(p.Clock))
	}
	return NewResolver(p.Directory, cfg, opts...)
}
