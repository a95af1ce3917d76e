package app

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/adapter/webhook"
	"github.com/polkiloo/restock/internal/config"
	"github.com/polkiloo/restock/internal/domain/repository"
	"github.com/polkiloo/restock/internal/queue"
	"github.com/polkiloo/restock/internal/server/http/handlers"
	"github.com/polkiloo/restock/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewRestockFacade,
		func(f *RestockFacade) handlers.RestockFacade { return f },
		newHTTPServer,
		newNotifier,
		newEventDispatcher,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type notifierParams struct {
	fx.In

	Config *config.Config
	Queue  *queue.Client
	Logger *zap.Logger
}

// newNotifier prefers the task queue, then the webhook, then the log.
func newNotifier(p notifierParams) (worker.Notifier, error) {
	if p.Queue.Enabled() {
		return p.Queue, nil
	}
	if url := strings.TrimSpace(p.Config.WebhookURL); url != "" {
		notifier, err := webhook.NewHTTPNotifier(url, p.Logger.Named("webhook"))
		if err != nil {
			return nil, err
		}
		return notifier, nil
	}
	return worker.NewLogNotifier(p.Logger.Named("events")), nil
}

type dispatcherParams struct {
	fx.In

	Events   repository.EventRepository
	Notifier worker.Notifier
	Config   *config.Config
	Logger   *zap.Logger
}

func newEventDispatcher(p dispatcherParams) *worker.EventDispatcher {
	return worker.NewEventDispatcher(
		p.Events,
		p.Notifier,
		p.Config.OutboxPollInterval,
		p.Config.OutboxBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger.Named("dispatcher"),
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *zap.Logger
	Server     *http.Server
	Dispatcher *worker.EventDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting restock service", zap.String("addr", p.Server.Addr))
			// The start context ends once fx finishes starting.
			p.Dispatcher.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", zap.Error(err))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Dispatcher.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("restock service stopped")
			return nil
		},
	})
}
