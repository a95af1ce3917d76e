package repository

import (
	"context"

	"github.com/polkiloo/restock/internal/domain/model"
)

// OrderRepository describes persistence of restock order aggregates.
// Apply runs the mutation on a locked snapshot, verifies invariants and
// persists the result atomically; callers never write fields directly.
type OrderRepository interface {
	Create(ctx context.Context, order model.NewOrder) (*model.RestockOrder, error)
	Get(ctx context.Context, orderID int64) (*model.Aggregate, error)
	List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error)
	ListLogistics(ctx context.Context, orderID int64) ([]model.LogisticsRecord, error)
	Apply(ctx context.Context, orderID int64, mutation model.Mutation) (*model.Aggregate, error)
}
