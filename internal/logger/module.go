package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/config"
)

// Module wires the zap logger for dependency injection and routes fx events through it.
var Module = fx.Options(
	fx.Provide(newLogger),
	fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	}),
	fx.Invoke(registerLifecycle),
)

func newLogger(cfg *config.Config) *zap.Logger {
	return New(cfg.Log)
}

func registerLifecycle(lc fx.Lifecycle, l *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
}
