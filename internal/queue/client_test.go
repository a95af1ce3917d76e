package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/polkiloo/restock/internal/config"
	"github.com/polkiloo/restock/internal/domain/model"
)

type enqueuerStub struct {
	tasks  []*asynq.Task
	opts   [][]asynq.Option
	err    error
	closed bool
}

func (s *enqueuerStub) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	s.opts = append(s.opts, opts)
	return &asynq.TaskInfo{ID: "id"}, nil
}

func (s *enqueuerStub) Close() error {
	s.closed = true
	return nil
}

var sampleEvent = model.StatusEvent{
	ID:         9,
	OrderID:    7,
	SKC:        "SKC-001",
	ShopRef:    "shop-1",
	From:       model.StatusAwaitingWarehouseConfirmation,
	To:         model.StatusCompleted,
	Operation:  "confirm_arrival",
	ActorID:    "buyer-1",
	ActorRole:  model.RoleBuyer,
	OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
}

func TestDisabledClient(t *testing.T) {
	client := NewClient(config.QueueConfig{})
	if client.Enabled() {
		t.Fatal("expected disabled client")
	}
	if client.queue != defaultQueue {
		t.Fatalf("unexpected queue %q", client.queue)
	}
	if err := client.Notify(context.Background(), sampleEvent); err != nil {
		t.Fatalf("disabled notify: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("disabled close: %v", err)
	}
}

func TestEnabledClientFromConfig(t *testing.T) {
	client := NewClient(config.QueueConfig{Enabled: true, Addr: "127.0.0.1:6379", Name: "notify"})
	defer client.Close()
	if !client.Enabled() || client.queue != "notify" {
		t.Fatalf("unexpected client %+v", client)
	}
}

func TestNotifyEnqueuesTask(t *testing.T) {
	stub := &enqueuerStub{}
	client := &Client{client: stub, enabled: true, queue: "restock"}

	if err := client.Notify(context.Background(), sampleEvent); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(stub.tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(stub.tasks))
	}
	task := stub.tasks[0]
	if task.Type() != TaskStatusChanged {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	payload, err := ParseStatusChangedPayload(task)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.EventID != 9 || payload.OrderID != 7 || payload.To != "COMPLETED" || payload.ActorRole != "buyer" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if !payload.OccurredAt.Equal(sampleEvent.OccurredAt) {
		t.Fatalf("unexpected time %s", payload.OccurredAt)
	}
	if len(stub.opts[0]) != 3 {
		t.Fatalf("expected queue, task id and retry options, got %d", len(stub.opts[0]))
	}

	if err := client.Close(); err != nil || !stub.closed {
		t.Fatalf("close should reach asynq client: %v", err)
	}
	if client.Name() != "asynq" {
		t.Fatalf("unexpected name %s", client.Name())
	}
}

func TestNotifyErrors(t *testing.T) {
	stub := &enqueuerStub{err: asynq.ErrTaskIDConflict}
	client := &Client{client: stub, enabled: true, queue: "restock"}
	if err := client.Notify(context.Background(), sampleEvent); err != nil {
		t.Fatalf("duplicate task id should be treated as delivered: %v", err)
	}

	boom := errors.New("redis down")
	stub.err = boom
	if err := client.Notify(context.Background(), sampleEvent); !errors.Is(err, boom) {
		t.Fatalf("expected enqueue error, got %v", err)
	}
}
