package handlers

import (
	"context"

	"github.com/polkiloo/restock/internal/domain/model"
)

// OrderFacade exposes order reads and seeding.
type OrderFacade interface {
	CreateOrder(ctx context.Context, input model.NewOrder) (*model.RestockOrder, error)
	ListOrders(ctx context.Context, actor model.Actor, filter model.OrderFilter) (*model.OrderPage, error)
	GetOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error)
}

// NegotiationFacade covers the merchant answer and the buyer review.
type NegotiationFacade interface {
	DeclareAcceptedQuantity(ctx context.Context, actor model.Actor, orderID int64, quantity int, reason string) (*model.Aggregate, error)
	DeclineAcceptance(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Aggregate, error)
	ResolveReduction(ctx context.Context, actor model.Actor, orderID int64, approve bool) (*model.Aggregate, error)
	ConfirmCancellation(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error)
}

// LogisticsFacade covers shipments and arrivals.
type LogisticsFacade interface {
	RecordShipment(ctx context.Context, actor model.Actor, orderID int64, waybill, carrier string, quantity int) (*model.Aggregate, error)
	ListLogistics(ctx context.Context, actor model.Actor, orderID int64) ([]model.LogisticsRecord, error)
	ConfirmArrival(ctx context.Context, actor model.Actor, orderID int64, recordID *string) (*model.Aggregate, error)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// RestockFacade aggregates the full set of operations used across handlers.
type RestockFacade interface {
	OrderFacade
	NegotiationFacade
	LogisticsFacade
	HealthFacade
}
