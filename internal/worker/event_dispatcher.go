package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/adapter/webhook"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/domain/repository"
)

// Notifier delivers one status event to the outside world.
type Notifier interface {
	Notify(ctx context.Context, event model.StatusEvent) error
	Name() string
}

// EventDispatcher drains the status event outbox into a Notifier concurrently.
type EventDispatcher struct {
	events       repository.EventRepository
	notifier     Notifier
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *zap.Logger

	jobs   chan model.StatusEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventDispatcher constructs the dispatcher worker pool.
func NewEventDispatcher(events repository.EventRepository, notifier Notifier, pollInterval time.Duration, batchSize, workers int, logger *zap.Logger) *EventDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{
		events:       events,
		notifier:     notifier,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.StatusEvent, batchSize*workers),
	}
}

// Start launches background dispatching.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.poll(runCtx)

	d.logger.Info("event dispatcher started",
		zap.String("notifier", d.notifier.Name()),
		zap.Int("workers", d.workers),
		zap.Duration("poll_interval", d.pollInterval),
	)
}

// Stop waits for all workers to finish.
func (d *EventDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *EventDispatcher) poll(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.claimAndDispatch(ctx)
		}
	}
}

func (d *EventDispatcher) claimAndDispatch(ctx context.Context) {
	events, err := d.events.ClaimPending(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("claim status events failed", zap.Error(err))
		return
	}
	for i, event := range events {
		select {
		case <-ctx.Done():
			d.release(context.WithoutCancel(ctx), events[i:])
			return
		case d.jobs <- event:
		}
	}
}

func (d *EventDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handleEvent(ctx, event)
		}
	}
}

func (d *EventDispatcher) handleEvent(ctx context.Context, event model.StatusEvent) {
	err := d.notifier.Notify(ctx, event)
	if err != nil {
		var limited webhook.TooManyRequestsError
		if errors.As(err, &limited) {
			d.logger.Warn("notifier rate limited", zap.Duration("retry_after", limited.RetryAfter))
			select {
			case <-ctx.Done():
			case <-time.After(limited.RetryAfter):
			}
		} else {
			d.logger.Error("status event delivery failed",
				zap.Int64("event_id", event.ID),
				zap.Int64("order_id", event.OrderID),
				zap.Error(err),
			)
		}
		d.release(context.WithoutCancel(ctx), []model.StatusEvent{event})
		return
	}

	if err := d.events.MarkDispatched(context.WithoutCancel(ctx), event.ID); err != nil {
		d.logger.Error("mark status event dispatched failed", zap.Int64("event_id", event.ID), zap.Error(err))
		return
	}
	d.logger.Debug("status event dispatched",
		zap.Int64("event_id", event.ID),
		zap.Int64("order_id", event.OrderID),
		zap.String("to", event.To.String()),
	)
}

func (d *EventDispatcher) release(ctx context.Context, events []model.StatusEvent) {
	for _, event := range events {
		if err := d.events.Release(ctx, event.ID); err != nil {
			d.logger.Warn("release status event failed", zap.Int64("event_id", event.ID), zap.Error(err))
		}
	}
}
