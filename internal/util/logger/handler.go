package logger

import (
	"context"
	"io"
	"log/slog"
)

// componentKey pkg/lib/log 附加的组件属性名
const componentKey = "component"

// componentHandler 按组件名过滤级别的 slog.Handler
//
// pkg/lib/log 通过 With("component", name) 附加组件名，
// WithAttrs 捕获该属性并切换到对应子系统的级别。
type componentHandler struct {
	cfg   *Config
	level slog.Level
	inner slog.Handler
}

// NewHandler 创建按子系统过滤的 Handler
func NewHandler(w io.Writer, cfg *Config) slog.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := &slog.HandlerOptions{
		// 过滤由 componentHandler 完成
		Level:     slog.LevelDebug,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	var inner slog.Handler
	if cfg.Format == FormatJSON {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}

	return &componentHandler{
		cfg:   cfg,
		level: cfg.DefaultLevel,
		inner: inner,
	}
}

// Enabled 检查是否启用指定级别
func (h *componentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle 处理日志记录
func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

// WithAttrs 添加属性，遇到组件名时切换级别
func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	level := h.level
	for _, a := range attrs {
		if a.Key == componentKey {
			level = h.cfg.LevelForSubsystem(a.Value.String())
		}
	}
	return &componentHandler{
		cfg:   h.cfg,
		level: level,
		inner: h.inner.WithAttrs(attrs),
	}
}

// WithGroup 添加组
func (h *componentHandler) WithGroup(name string) slog.Handler {
	return &componentHandler{
		cfg:   h.cfg,
		level: h.level,
		inner: h.inner.WithGroup(name),
	}
}

// Install 创建 logger 并设为 slog 默认 logger
//
// 返回安装的 logger。
func Install(w io.Writer, cfg *Config) *slog.Logger {
	l := slog.New(NewHandler(w, cfg))
	slog.SetDefault(l)
	return l
}
