package repository

import (
	"context"

	"github.com/polkiloo/restock/internal/domain/model"
)

// EventRepository gives the outbox dispatcher access to pending status events.
type EventRepository interface {
	ClaimPending(ctx context.Context, limit int) ([]model.StatusEvent, error)
	MarkDispatched(ctx context.Context, eventID int64) error
	Release(ctx context.Context, eventID int64) error
}
