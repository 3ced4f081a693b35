package rfcomm

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-rfcomm/internal/core/metrics"
	"github.com/dep2p/go-rfcomm/internal/core/sdp"
	"github.com/dep2p/go-rfcomm/internal/core/socket"
	"github.com/dep2p/go-rfcomm/internal/core/transport"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/lib/log"
)

var fxLogger = log.Logger("rfcomm/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置、指标
//  2. 传输（原生或委托）、服务目录
//  3. SDP Resolver → Socket Factory
func buildFxApp(o *options, factory **socket.Factory) (*fx.App, error) {
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(o.config),
		metrics.Module,
	}

	if o.registerer != nil {
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return o.registerer }))
	}

	if o.source != nil {
		modules = append(modules,
			fx.Provide(func() transport.Source { return o.source }),
			transport.Module(),
		)
	} else {
		modules = append(modules, fx.Provide(func() interfaces.Transport { return o.transport }))
	}

	if o.directory != nil {
		modules = append(modules, fx.Provide(func() interfaces.ServiceDirectory { return o.directory }))
	}

	modules = append(modules,
		sdp.Module(),
		socket.Module(),
		fx.Populate(factory),
	)
	modules = append(modules, o.fxOptions...)

	// Fx 内部日志静默，组件日志走 slog
	modules = append(modules, fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}))

	fxLogger.Debug("构建 Fx 应用", "modules", len(modules), "mode", o.config.Transport.Mode)
	return fx.New(modules...), nil
}
