package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RestockFacade exposes the restock use cases to transport layers.
type RestockFacade struct {
	queries     *usecase.QueryUseCase
	negotiation *usecase.NegotiationUseCase
	review      *usecase.ReviewUseCase
	logistics   *usecase.LogisticsUseCase
	arrivals    *usecase.ArrivalUseCase
	health      HealthChecker
}

// FacadeParams are the facade dependencies.
type FacadeParams struct {
	fx.In

	Queries     *usecase.QueryUseCase
	Negotiation *usecase.NegotiationUseCase
	Review      *usecase.ReviewUseCase
	Logistics   *usecase.LogisticsUseCase
	Arrivals    *usecase.ArrivalUseCase
	Health      HealthChecker
}

// NewRestockFacade assembles the facade from the use cases.
func NewRestockFacade(p FacadeParams) *RestockFacade {
	return &RestockFacade{
		queries:     p.Queries,
		negotiation: p.Negotiation,
		review:      p.Review,
		logistics:   p.Logistics,
		arrivals:    p.Arrivals,
		health:      p.Health,
	}
}

func (f *RestockFacade) CreateOrder(ctx context.Context, input model.NewOrder) (*model.RestockOrder, error) {
	return f.queries.CreateOrder(ctx, input)
}

func (f *RestockFacade) ListOrders(ctx context.Context, actor model.Actor, filter model.OrderFilter) (*model.OrderPage, error) {
	return f.queries.ListOrders(ctx, actor, filter)
}

func (f *RestockFacade) GetOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error) {
	return f.queries.GetOrder(ctx, actor, orderID)
}

func (f *RestockFacade) DeclareAcceptedQuantity(ctx context.Context, actor model.Actor, orderID int64, quantity int, reason string) (*model.Aggregate, error) {
	return f.negotiation.DeclareAcceptedQuantity(ctx, actor, orderID, quantity, reason)
}

func (f *RestockFacade) DeclineAcceptance(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Aggregate, error) {
	return f.negotiation.DeclineAcceptance(ctx, actor, orderID, reason)
}

func (f *RestockFacade) ResolveReduction(ctx context.Context, actor model.Actor, orderID int64, approve bool) (*model.Aggregate, error) {
	return f.review.ResolveReduction(ctx, actor, orderID, approve)
}

func (f *RestockFacade) ConfirmCancellation(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error) {
	return f.review.ConfirmCancellation(ctx, actor, orderID)
}

func (f *RestockFacade) RecordShipment(ctx context.Context, actor model.Actor, orderID int64, waybill, carrier string, quantity int) (*model.Aggregate, error) {
	return f.logistics.RecordShipment(ctx, actor, orderID, usecase.Shipment{
		WaybillNumber:   waybill,
		Carrier:         carrier,
		ShippedQuantity: quantity,
	})
}

func (f *RestockFacade) ListLogistics(ctx context.Context, actor model.Actor, orderID int64) ([]model.LogisticsRecord, error) {
	return f.logistics.ListLogistics(ctx, actor, orderID)
}

func (f *RestockFacade) ConfirmArrival(ctx context.Context, actor model.Actor, orderID int64, recordID *string) (*model.Aggregate, error) {
	return f.arrivals.ConfirmArrival(ctx, actor, orderID, recordID)
}

func (f *RestockFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
