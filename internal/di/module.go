package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/restock/internal/app"
	"github.com/polkiloo/restock/internal/cache"
	"github.com/polkiloo/restock/internal/config"
	"github.com/polkiloo/restock/internal/logger"
	"github.com/polkiloo/restock/internal/pkg/auth"
	"github.com/polkiloo/restock/internal/pkg/authz"
	"github.com/polkiloo/restock/internal/queue"
	"github.com/polkiloo/restock/internal/server/http/router"
	"github.com/polkiloo/restock/internal/storage/postgres"
	"github.com/polkiloo/restock/internal/usecase"
)

// Module composes the full service graph; opts are appended last so tests can replace nodes.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		authz.Module,
		postgres.Module,
		cache.Module,
		queue.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
