package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/polkiloo/restock/internal/domain/model"
)

// TaskStatusChanged notifies subscribers that an order moved to a new status.
const TaskStatusChanged = "restock:status_changed"

// StatusChangedPayload is the task body of TaskStatusChanged.
type StatusChangedPayload struct {
	EventID    int64     `json:"event_id"`
	OrderID    int64     `json:"order_id"`
	SKC        string    `json:"skc"`
	ShopRef    string    `json:"shop"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Operation  string    `json:"operation"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PayloadFromEvent converts an outbox event.
func PayloadFromEvent(event model.StatusEvent) StatusChangedPayload {
	return StatusChangedPayload{
		EventID:    event.ID,
		OrderID:    event.OrderID,
		SKC:        event.SKC,
		ShopRef:    event.ShopRef,
		From:       string(event.From),
		To:         string(event.To),
		Operation:  event.Operation,
		ActorID:    event.ActorID,
		ActorRole:  string(event.ActorRole),
		OccurredAt: event.OccurredAt,
	}
}

// NewStatusChangedTask builds the asynq task for an event.
func NewStatusChangedTask(payload StatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatusChanged, body), nil
}

// ParseStatusChangedPayload decodes a task body, for consumers.
func ParseStatusChangedPayload(task *asynq.Task) (StatusChangedPayload, error) {
	var payload StatusChangedPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
