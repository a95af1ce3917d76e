package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
)

var buyer = model.Actor{ID: "buyer-1", Role: model.RoleBuyer}

type funcMutation struct {
	name  string
	actor model.Actor
	fn    func(agg *model.Aggregate, now time.Time) error
}

func (m funcMutation) Name() string        { return m.name }
func (m funcMutation) Issuer() model.Actor { return m.actor }
func (m funcMutation) Apply(agg *model.Aggregate, now time.Time) error {
	return m.fn(agg, now)
}

func isConflict(err error) bool {
	return errors.Is(err, domainErrors.ErrConflictingWrite)
}

func intPtr(v int) *int { return &v }

func orderRows(orders ...model.RestockOrder) *pgxmockv3.Rows {
	rows := pgxmockv3.NewRows([]string{
		"id", "skc", "shop_ref", "plan_quantity", "accepted_quantity", "reduction_reason", "decline_reason",
		"review", "reviewed_by", "reviewed_at", "arrived_quantity", "status", "version", "created_at", "updated_at",
		"completed_at", "cancelled_at",
	})
	for _, o := range orders {
		rows.AddRow(o.ID, o.SKC, o.ShopRef, o.PlanQuantity, o.AcceptedQuantity, o.ReductionReason, o.DeclineReason,
			o.Review, o.ReviewedBy, o.ReviewedAt, o.ArrivedQuantity, o.Status, o.Version, o.CreatedAt, o.UpdatedAt,
			o.CompletedAt, o.CancelledAt)
	}
	return rows
}

func logisticsRows(records ...model.LogisticsRecord) *pgxmockv3.Rows {
	rows := pgxmockv3.NewRows([]string{
		"id", "order_id", "waybill_number", "carrier", "shipped_quantity", "confirmed",
		"confirm_time", "confirmed_by", "created_at",
	})
	for _, r := range records {
		rows.AddRow(r.ID, r.OrderID, r.WaybillNumber, r.Carrier, r.ShippedQuantity, r.Confirmed,
			r.ConfirmTime, r.ConfirmedBy, r.CreatedAt)
	}
	return rows
}

func pendingOrder() model.RestockOrder {
	return model.RestockOrder{
		ID:           7,
		SKC:          "SKC-001",
		ShopRef:      "shop-1",
		PlanQuantity: 1000,
		Status:       model.StatusPendingAcceptance,
		Version:      1,
		CreatedAt:    fixedNow.Add(-time.Hour),
		UpdatedAt:    fixedNow.Add(-time.Hour),
	}
}

func shippingOrder() (model.RestockOrder, []model.LogisticsRecord) {
	o := pendingOrder()
	o.AcceptedQuantity = intPtr(800)
	o.ReductionReason = "产能不足"
	o.Review = model.ReviewApproved
	o.ReviewedBy = "buyer-1"
	reviewed := fixedNow.Add(-30 * time.Minute)
	o.ReviewedAt = &reviewed
	o.Status = model.StatusAwaitingWarehouseConfirmation
	o.Version = 4
	records := []model.LogisticsRecord{
		{ID: "rec-a", OrderID: 7, WaybillNumber: "WB001", Carrier: "SF", ShippedQuantity: 500, CreatedAt: fixedNow.Add(-20 * time.Minute)},
		{ID: "rec-b", OrderID: 7, WaybillNumber: "WB002", Carrier: "SF", ShippedQuantity: 300, CreatedAt: fixedNow.Add(-10 * time.Minute)},
	}
	return o, records
}

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO restock_orders").
		WithArgs("SKC-001", "shop-1", 1000, "PENDING_ACCEPTANCE", int64(1), fixedNow, fixedNow).
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(7)))

	order, err := repo.Create(ctx, model.NewOrder{SKC: " SKC-001 ", ShopRef: "shop-1", PlanQuantity: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 7 || order.Status != model.StatusPendingAcceptance || order.AcceptedQuantity != nil {
		t.Fatalf("unexpected order: %+v", order)
	}

	if _, err := repo.Create(ctx, model.NewOrder{SKC: "SKC", ShopRef: "shop", PlanQuantity: 0}); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if _, err := repo.Create(ctx, model.NewOrder{SKC: " ", ShopRef: "shop", PlanQuantity: 5}); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO restock_orders").WillReturnError(errors.New("insert failed"))
	if _, err := repo.Create(ctx, model.NewOrder{SKC: "SKC", ShopRef: "shop", PlanQuantity: 5}); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}
	ctx := context.Background()

	order, records := shippingOrder()
	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("FROM restock_orders WHERE id=").WithArgs(int64(7)).WillReturnRows(orderRows(order))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows(records...))
	mock.ExpectCommit()

	agg, err := repo.Get(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Order.ID != 7 || *agg.Order.AcceptedQuantity != 800 || agg.Order.Review != model.ReviewApproved {
		t.Fatalf("unexpected order: %+v", agg.Order)
	}
	if len(agg.Logistics) != 2 || agg.Logistics[1].ID != "rec-b" {
		t.Fatalf("unexpected logistics: %+v", agg.Logistics)
	}

	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("FROM restock_orders WHERE id=").WithArgs(int64(8)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	if _, err := repo.Get(ctx, 8); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("FROM restock_orders WHERE id=").WithArgs(int64(7)).WillReturnRows(orderRows(order))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()
	if _, err := repo.Get(ctx, 7); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListLogistics(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	order, records := shippingOrder()
	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("FROM restock_orders WHERE id=").WithArgs(int64(7)).WillReturnRows(orderRows(order))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows(records...))
	mock.ExpectCommit()

	got, err := repo.ListLogistics(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].WaybillNumber != "WB001" {
		t.Fatalf("unexpected records: %+v", got)
	}

	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("FROM restock_orders WHERE id=").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	if _, err := repo.ListLogistics(context.Background(), 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}
	ctx := context.Background()

	status := model.StatusPendingAcceptance
	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("SELECT COUNT").WithArgs("PENDING_ACCEPTANCE", "shop-1").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery("FROM restock_orders WHERE status=").WithArgs("PENDING_ACCEPTANCE", "shop-1", 2, 2).
		WillReturnRows(orderRows(pendingOrder()))
	mock.ExpectCommit()

	page, err := repo.List(ctx, model.OrderFilter{Status: &status, ShopRef: "shop-1", Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 || page.Page != 2 || page.PageSize != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}

	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("SELECT COUNT").WithArgs().
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs(maxPageSize, 0).
		WillReturnRows(orderRows())
	mock.ExpectCommit()

	page, err = repo.List(ctx, model.OrderFilter{PageSize: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || page.PageSize != maxPageSize || len(page.Items) != 0 {
		t.Fatalf("unexpected normalized page: %+v", page)
	}

	mock.ExpectBeginTx(readSnapshot)
	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()
	if _, err := repo.List(ctx, model.OrderFilter{}); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryApplyAcceptance(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	accept := funcMutation{name: "accept", actor: model.Actor{ID: "m-1", Role: model.RoleMerchant, ShopRef: "shop-1"},
		fn: func(agg *model.Aggregate, _ time.Time) error {
			agg.Order.AcceptedQuantity = intPtr(agg.Order.PlanQuantity)
			agg.Order.Status = model.StatusInProduction
			return nil
		}}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(pendingOrder()))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows())
	mock.ExpectExec("UPDATE restock_orders SET").
		WithArgs(int64(7), intPtr(1000), "", "", "", "", pgxmockv3.AnyArg(), 0, "IN_PRODUCTION",
			pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), fixedNow, int64(2), int64(1)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO restock_events").
		WithArgs(int64(7), "SKC-001", "shop-1", "PENDING_ACCEPTANCE", "IN_PRODUCTION", "accept", "m-1", "merchant", fixedNow).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	agg, err := repo.Apply(context.Background(), 7, accept)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Order.Status != model.StatusInProduction || agg.Order.Version != 2 || !agg.Order.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected result: %+v", agg.Order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryApplyArrival(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	order, records := shippingOrder()
	confirmAll := funcMutation{name: "confirm_arrival", actor: buyer,
		fn: func(agg *model.Aggregate, now time.Time) error {
			for i := range agg.Logistics {
				agg.Logistics[i].Confirmed = true
				agg.Logistics[i].ConfirmTime = &now
				agg.Logistics[i].ConfirmedBy = buyer.ID
			}
			agg.Order.ArrivedQuantity = model.ConfirmedQuantity(agg.Logistics)
			agg.Order.Status = model.StatusCompleted
			agg.Order.CompletedAt = &now
			return nil
		}}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(order))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows(records...))
	mock.ExpectExec("UPDATE restock_logistics SET confirmed=TRUE").WithArgs("rec-a", pgxmockv3.AnyArg(), "buyer-1").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE restock_logistics SET confirmed=TRUE").WithArgs("rec-b", pgxmockv3.AnyArg(), "buyer-1").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE restock_orders SET").WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO restock_events").WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	agg, err := repo.Apply(context.Background(), 7, confirmAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Order.ArrivedQuantity != 800 || agg.Order.Status != model.StatusCompleted {
		t.Fatalf("unexpected result: %+v", agg.Order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryApplyShipmentWithoutStatusChange(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	order, records := shippingOrder()
	ship := funcMutation{name: "record_shipment", actor: model.Actor{ID: "m-1", Role: model.RoleMerchant},
		fn: func(agg *model.Aggregate, now time.Time) error {
			agg.Logistics = append(agg.Logistics, model.LogisticsRecord{
				ID: "rec-c", OrderID: 7, WaybillNumber: "WB003", Carrier: "YTO", ShippedQuantity: 50, CreatedAt: now,
			})
			return nil
		}}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(order))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows(records...))
	mock.ExpectExec("INSERT INTO restock_logistics").
		WithArgs("rec-c", int64(7), "WB003", "YTO", 50, false, pgxmockv3.AnyArg(), "", fixedNow).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE restock_orders SET").WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	agg, err := repo.Apply(context.Background(), 7, ship)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agg.Logistics) != 3 || agg.Order.Version != 5 {
		t.Fatalf("unexpected result: %+v", agg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryApplyNoop(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	noop := funcMutation{name: "noop", actor: buyer, fn: func(*model.Aggregate, time.Time) error { return nil }}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(pendingOrder()))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows())
	mock.ExpectCommit()

	agg, err := repo.Apply(context.Background(), 7, noop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Order.Version != 1 {
		t.Fatalf("expected untouched version, got %d", agg.Order.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryApplyRejections(t *testing.T) {
	cases := []struct {
		name     string
		mutation funcMutation
		want     error
	}{
		{
			name: "mutation rejects",
			mutation: funcMutation{name: "ship", actor: buyer, fn: func(*model.Aggregate, time.Time) error {
				return domainErrors.ErrInvalidTransition
			}},
			want: domainErrors.ErrInvalidTransition,
		},
		{
			name: "invariant violated",
			mutation: funcMutation{name: "tamper", actor: buyer, fn: func(agg *model.Aggregate, _ time.Time) error {
				agg.Order.ArrivedQuantity = 10
				return nil
			}},
			want: domainErrors.ErrInvariantViolation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage, mock := newMockStorage(t)
			defer mock.Close()
			repo := &orderRepository{storage: storage}

			mock.ExpectBegin()
			mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(pendingOrder()))
			mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows())
			mock.ExpectRollback()

			if _, err := repo.Apply(context.Background(), 7, tc.mutation); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations not met: %v", err)
			}
		})
	}
}

func TestOrderRepositoryApplyConflicts(t *testing.T) {
	accept := funcMutation{name: "accept", actor: buyer, fn: func(agg *model.Aggregate, _ time.Time) error {
		agg.Order.AcceptedQuantity = intPtr(agg.Order.PlanQuantity)
		agg.Order.Status = model.StatusInProduction
		return nil
	}}

	t.Run("version moved", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &orderRepository{storage: storage}

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(pendingOrder()))
		mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows())
		mock.ExpectExec("UPDATE restock_orders SET").WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		if _, err := repo.Apply(context.Background(), 7, accept); !isConflict(err) {
			t.Fatalf("expected conflicting write, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations not met: %v", err)
		}
	})

	t.Run("serialization failure", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &orderRepository{storage: storage}

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnError(&pgconn.PgError{Code: "40001"})
		mock.ExpectRollback()

		if _, err := repo.Apply(context.Background(), 7, accept); !isConflict(err) {
			t.Fatalf("expected conflicting write, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations not met: %v", err)
		}
	})

	t.Run("record confirmed concurrently", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &orderRepository{storage: storage}

		order, records := shippingOrder()
		confirm := funcMutation{name: "confirm_arrival", actor: buyer, fn: func(agg *model.Aggregate, now time.Time) error {
			rec, _ := agg.Record("rec-a")
			rec.Confirmed = true
			rec.ConfirmTime = &now
			agg.Order.ArrivedQuantity = 500
			return nil
		}}

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(order))
		mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows(records...))
		mock.ExpectExec("UPDATE restock_logistics SET confirmed=TRUE").WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		if _, err := repo.Apply(context.Background(), 7, confirm); !isConflict(err) {
			t.Fatalf("expected conflicting write, got %v", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()
		repo := &orderRepository{storage: storage}

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		if _, err := repo.Apply(context.Background(), 99, accept); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestOrderRepositoryApplyRetriesTransientFailure(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	accept := funcMutation{name: "accept", actor: buyer, fn: func(agg *model.Aggregate, _ time.Time) error {
		agg.Order.AcceptedQuantity = intPtr(agg.Order.PlanQuantity)
		agg.Order.Status = model.StatusInProduction
		return nil
	}}

	mock.ExpectBegin().WillReturnError(retryableError{})
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).WillReturnRows(orderRows(pendingOrder()))
	mock.ExpectQuery("FROM restock_logistics WHERE order_id=").WithArgs(int64(7)).WillReturnRows(logisticsRows())
	mock.ExpectExec("UPDATE restock_orders SET").WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO restock_events").WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if _, err := repo.Apply(context.Background(), 7, accept); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
