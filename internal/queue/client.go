// Package queue publishes status-change notifications to asynq.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/polkiloo/restock/internal/config"
	"github.com/polkiloo/restock/internal/domain/model"
)

const defaultQueue = "restock"

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client wraps an asynq client. A disabled client accepts every call and publishes nothing.
type Client struct {
	client  enqueuer
	enabled bool
	queue   string
}

// NewClient creates the queue client.
func NewClient(cfg config.QueueConfig) *Client {
	queue := strings.TrimSpace(cfg.Name)
	if queue == "" {
		queue = defaultQueue
	}
	if !cfg.Enabled {
		return &Client{queue: queue}
	}
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     strings.TrimSpace(cfg.Addr),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Client{client: client, enabled: true, queue: queue}
}

// Enabled reports whether tasks are published.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close closes the underlying client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Notify publishes a status change. The event id doubles as the task id so a
// redelivered outbox event is not enqueued twice.
func (c *Client) Notify(ctx context.Context, event model.StatusEvent) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewStatusChangedTask(PayloadFromEvent(event))
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID("status-event-"+strconv.FormatInt(event.ID, 10)),
		asynq.MaxRetry(5),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue status event %d: %w", event.ID, err)
	}
	return nil
}

// Name identifies the notifier in logs.
func (c *Client) Name() string {
	return "asynq"
}
