package test

import (
	"context"
	"time"

	"github.com/polkiloo/restock/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, model.NewOrder) (*model.RestockOrder, error)
	ListFn   func(context.Context, model.Actor, model.OrderFilter) (*model.OrderPage, error)
	GetFn    func(context.Context, model.Actor, int64) (*model.Aggregate, error)
}

// CreateOrder delegates to CreateFn or echoes the input as a fresh order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, input model.NewOrder) (*model.RestockOrder, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, input)
	}
	return &model.RestockOrder{
		ID:           1,
		SKC:          input.SKC,
		ShopRef:      input.ShopRef,
		PlanQuantity: input.PlanQuantity,
		Status:       model.StatusPendingAcceptance,
		CreatedAt:    time.Unix(0, 0).UTC(),
	}, nil
}

// ListOrders returns an empty page unless overridden.
func (s OrderFacadeStub) ListOrders(ctx context.Context, actor model.Actor, filter model.OrderFilter) (*model.OrderPage, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, actor, filter)
	}
	return &model.OrderPage{Page: filter.Page, PageSize: filter.PageSize}, nil
}

// GetOrder returns a default aggregate unless overridden.
func (s OrderFacadeStub) GetOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, actor, orderID)
	}
	return SampleAggregate(orderID), nil
}

// NegotiationFacadeStub simulates acceptance and review calls.
type NegotiationFacadeStub struct {
	AcceptFn  func(context.Context, model.Actor, int64, int, string) (*model.Aggregate, error)
	DeclineFn func(context.Context, model.Actor, int64, string) (*model.Aggregate, error)
	ReviewFn  func(context.Context, model.Actor, int64, bool) (*model.Aggregate, error)
	CancelFn  func(context.Context, model.Actor, int64) (*model.Aggregate, error)
}

// DeclareAcceptedQuantity delegates to AcceptFn.
func (s NegotiationFacadeStub) DeclareAcceptedQuantity(ctx context.Context, actor model.Actor, orderID int64, quantity int, reason string) (*model.Aggregate, error) {
	if s.AcceptFn != nil {
		return s.AcceptFn(ctx, actor, orderID, quantity, reason)
	}
	return SampleAggregate(orderID), nil
}

// DeclineAcceptance delegates to DeclineFn.
func (s NegotiationFacadeStub) DeclineAcceptance(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Aggregate, error) {
	if s.DeclineFn != nil {
		return s.DeclineFn(ctx, actor, orderID, reason)
	}
	return SampleAggregate(orderID), nil
}

// ResolveReduction delegates to ReviewFn.
func (s NegotiationFacadeStub) ResolveReduction(ctx context.Context, actor model.Actor, orderID int64, approve bool) (*model.Aggregate, error) {
	if s.ReviewFn != nil {
		return s.ReviewFn(ctx, actor, orderID, approve)
	}
	return SampleAggregate(orderID), nil
}

// ConfirmCancellation delegates to CancelFn.
func (s NegotiationFacadeStub) ConfirmCancellation(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, actor, orderID)
	}
	return SampleAggregate(orderID), nil
}

// LogisticsFacadeStub simulates shipment and arrival calls.
type LogisticsFacadeStub struct {
	ShipFn    func(context.Context, model.Actor, int64, string, string, int) (*model.Aggregate, error)
	LedgerFn  func(context.Context, model.Actor, int64) ([]model.LogisticsRecord, error)
	ArrivalFn func(context.Context, model.Actor, int64, *string) (*model.Aggregate, error)
}

// RecordShipment delegates to ShipFn.
func (s LogisticsFacadeStub) RecordShipment(ctx context.Context, actor model.Actor, orderID int64, waybill, carrier string, quantity int) (*model.Aggregate, error) {
	if s.ShipFn != nil {
		return s.ShipFn(ctx, actor, orderID, waybill, carrier, quantity)
	}
	return SampleAggregate(orderID), nil
}

// ListLogistics delegates to LedgerFn.
func (s LogisticsFacadeStub) ListLogistics(ctx context.Context, actor model.Actor, orderID int64) ([]model.LogisticsRecord, error) {
	if s.LedgerFn != nil {
		return s.LedgerFn(ctx, actor, orderID)
	}
	return SampleAggregate(orderID).Logistics, nil
}

// ConfirmArrival delegates to ArrivalFn.
func (s LogisticsFacadeStub) ConfirmArrival(ctx context.Context, actor model.Actor, orderID int64, recordID *string) (*model.Aggregate, error) {
	if s.ArrivalFn != nil {
		return s.ArrivalFn(ctx, actor, orderID, recordID)
	}
	return SampleAggregate(orderID), nil
}

// HealthFacadeStub reports a configurable health error.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns Err.
func (s HealthFacadeStub) HealthCheck(context.Context) error { return s.Err }

// RestockFacadeStub aggregates facade dependencies for HTTP layer tests.
type RestockFacadeStub struct {
	OrderFacadeStub
	NegotiationFacadeStub
	LogisticsFacadeStub
	HealthFacadeStub
}

// SampleAggregate is an order in production with one shipped batch.
func SampleAggregate(orderID int64) *model.Aggregate {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	accepted := 80
	return &model.Aggregate{
		Order: model.RestockOrder{
			ID:               orderID,
			SKC:              "SKC-1",
			ShopRef:          "shop-1",
			PlanQuantity:     100,
			AcceptedQuantity: &accepted,
			Status:           model.StatusInProduction,
			CreatedAt:        created,
			UpdatedAt:        created,
		},
		Logistics: []model.LogisticsRecord{{
			ID:              "rec-1",
			OrderID:         orderID,
			WaybillNumber:   "WB-1",
			Carrier:         "SF",
			ShippedQuantity: 30,
			CreatedAt:       created,
		}},
	}
}
