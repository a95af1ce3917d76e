package cache

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the idempotency store.
var Module = fx.Options(
	fx.Provide(NewIdempotencyStore),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, store *IdempotencyStore, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !store.Enabled() {
				logger.Info("idempotency cache disabled")
				return nil
			}
			if err := store.Ping(ctx); err != nil {
				logger.Warn("idempotency cache unreachable", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
}
