package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/lifecycle"
	"github.com/polkiloo/restock/internal/domain/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

const orderColumns = `id, skc, shop_ref, plan_quantity, accepted_quantity, reduction_reason, decline_reason,
    review, reviewed_by, reviewed_at, arrived_quantity, status, version, created_at, updated_at,
    completed_at, cancelled_at`

const logisticsColumns = `id, order_id, waybill_number, carrier, shipped_quantity, confirmed,
    confirm_time, confirmed_by, created_at`

// queryer is implemented by both the pool and a transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var readSnapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

func (r *orderRepository) Create(ctx context.Context, input model.NewOrder) (*model.RestockOrder, error) {
	skc := strings.TrimSpace(input.SKC)
	shop := strings.TrimSpace(input.ShopRef)
	if skc == "" || shop == "" {
		return nil, fmt.Errorf("%w: skc and shop are required", domainErrors.ErrInvalidInput)
	}
	if input.PlanQuantity <= 0 {
		return nil, fmt.Errorf("%w: plan quantity must be positive, got %d", domainErrors.ErrInvalidQuantity, input.PlanQuantity)
	}

	now := r.storage.now().UTC()
	order := model.RestockOrder{
		SKC:          skc,
		ShopRef:      shop,
		PlanQuantity: input.PlanQuantity,
		Status:       lifecycle.Project(model.RestockOrder{PlanQuantity: input.PlanQuantity}, nil),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := lifecycle.Verify(nil, &model.Aggregate{Order: order}); err != nil {
		return nil, err
	}

	const query = `INSERT INTO restock_orders (skc, shop_ref, plan_quantity, status, version, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id`
	err := r.storage.retry(ctx, "create order", func() error {
		return r.storage.pool.QueryRow(ctx, query, order.SKC, order.ShopRef, order.PlanQuantity,
			string(order.Status), order.Version, order.CreatedAt, order.UpdatedAt).Scan(&order.ID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Get(ctx context.Context, orderID int64) (*model.Aggregate, error) {
	var agg *model.Aggregate
	err := r.storage.retry(ctx, "get order", func() error {
		return r.storage.withinTransaction(ctx, readSnapshot, func(tx pgx.Tx) error {
			loaded, err := loadAggregate(ctx, tx, orderID, false)
			if err != nil {
				return err
			}
			agg = loaded
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	var (
		conditions []string
		args       []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ShopRef != "" {
		args = append(args, filter.ShopRef)
		conditions = append(conditions, fmt.Sprintf("shop_ref=$%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM restock_orders" + where
	listQuery := fmt.Sprintf("SELECT %s FROM restock_orders%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)+1, len(args)+2)
	listArgs := append(append([]any{}, args...), size, (page-1)*size)

	result := &model.OrderPage{Page: page, PageSize: size}
	err := r.storage.retry(ctx, "list orders", func() error {
		return r.storage.withinTransaction(ctx, readSnapshot, func(tx pgx.Tx) error {
			var total int64
			if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
				return err
			}
			rows, err := tx.Query(ctx, listQuery, listArgs...)
			if err != nil {
				return err
			}
			defer rows.Close()

			items := make([]model.RestockOrder, 0, size)
			for rows.Next() {
				var o model.RestockOrder
				if err := rows.Scan(orderDest(&o)...); err != nil {
					return err
				}
				items = append(items, o)
			}
			if err := rows.Err(); err != nil {
				return err
			}
			result.Total = total
			result.Items = items
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListLogistics(ctx context.Context, orderID int64) ([]model.LogisticsRecord, error) {
	agg, err := r.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return agg.Logistics, nil
}

// Apply locks the order row, runs the mutation on a copy of the aggregate,
// verifies the result and persists only what changed.
func (r *orderRepository) Apply(ctx context.Context, orderID int64, mutation model.Mutation) (*model.Aggregate, error) {
	var result *model.Aggregate
	err := r.storage.retry(ctx, mutation.Name(), func() error {
		return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
			before, err := loadAggregate(ctx, tx, orderID, true)
			if err != nil {
				return err
			}

			after := before.Clone()
			now := r.storage.now().UTC()
			if err := mutation.Apply(after, now); err != nil {
				return err
			}
			if err := lifecycle.Verify(before, after); err != nil {
				return err
			}

			changes := after.Diff(before)
			if changes.Empty() {
				result = after
				return nil
			}
			after.Order.UpdatedAt = now
			after.Order.Version = before.Order.Version + 1

			if err := persistChanges(ctx, tx, before, after, changes); err != nil {
				return err
			}
			if before.Order.Status != after.Order.Status {
				event := model.StatusEvent{
					OrderID:    after.Order.ID,
					SKC:        after.Order.SKC,
					ShopRef:    after.Order.ShopRef,
					From:       before.Order.Status,
					To:         after.Order.Status,
					Operation:  mutation.Name(),
					ActorID:    mutation.Issuer().ID,
					ActorRole:  mutation.Issuer().Role,
					OccurredAt: now,
				}
				if err := insertEvent(ctx, tx, event); err != nil {
					return err
				}
			}
			result = after
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	r.storage.logger.Debug("order mutation applied",
		zap.Int64("order_id", orderID),
		zap.String("operation", mutation.Name()),
		zap.String("status", result.Order.Status.String()),
		zap.Int64("version", result.Order.Version),
	)
	return result, nil
}

func persistChanges(ctx context.Context, tx pgx.Tx, before, after *model.Aggregate, changes model.Changes) error {
	const insertRecord = `INSERT INTO restock_logistics (id, order_id, waybill_number, carrier, shipped_quantity, confirmed, confirm_time, confirmed_by, created_at)
                          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, rec := range changes.Appended {
		if _, err := tx.Exec(ctx, insertRecord, rec.ID, rec.OrderID, rec.WaybillNumber, rec.Carrier,
			rec.ShippedQuantity, rec.Confirmed, rec.ConfirmTime, rec.ConfirmedBy, rec.CreatedAt); err != nil {
			return fmt.Errorf("insert logistics record: %w", err)
		}
	}

	const confirmRecord = `UPDATE restock_logistics SET confirmed=TRUE, confirm_time=$2, confirmed_by=$3
                           WHERE id=$1 AND confirmed=FALSE`
	for _, rec := range changes.Confirmed {
		tag, err := tx.Exec(ctx, confirmRecord, rec.ID, rec.ConfirmTime, rec.ConfirmedBy)
		if err != nil {
			return fmt.Errorf("confirm logistics record: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("%w: logistics record %s was confirmed concurrently", domainErrors.ErrConflictingWrite, rec.ID)
		}
	}

	o := after.Order
	const updateOrder = `UPDATE restock_orders SET accepted_quantity=$2, reduction_reason=$3, decline_reason=$4,
                             review=$5, reviewed_by=$6, reviewed_at=$7, arrived_quantity=$8, status=$9,
                             completed_at=$10, cancelled_at=$11, updated_at=$12, version=$13
                         WHERE id=$1 AND version=$14`
	tag, err := tx.Exec(ctx, updateOrder, o.ID, o.AcceptedQuantity, o.ReductionReason, o.DeclineReason,
		string(o.Review), o.ReviewedBy, o.ReviewedAt, o.ArrivedQuantity, string(o.Status),
		o.CompletedAt, o.CancelledAt, o.UpdatedAt, o.Version, before.Order.Version)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: order %d changed since it was read", domainErrors.ErrConflictingWrite, o.ID)
	}
	return nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, e model.StatusEvent) error {
	const query = `INSERT INTO restock_events (order_id, skc, shop_ref, from_status, to_status, operation, actor_id, actor_role, occurred_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.Exec(ctx, query, e.OrderID, e.SKC, e.ShopRef, string(e.From), string(e.To),
		e.Operation, e.ActorID, string(e.ActorRole), e.OccurredAt); err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}
	return nil
}

func loadAggregate(ctx context.Context, q queryer, orderID int64, forUpdate bool) (*model.Aggregate, error) {
	query := "SELECT " + orderColumns + " FROM restock_orders WHERE id=$1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	agg := &model.Aggregate{}
	if err := q.QueryRow(ctx, query, orderID).Scan(orderDest(&agg.Order)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
		}
		return nil, err
	}

	records, err := loadLogistics(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	agg.Logistics = records
	return agg, nil
}

func loadLogistics(ctx context.Context, q queryer, orderID int64) ([]model.LogisticsRecord, error) {
	query := "SELECT " + logisticsColumns + " FROM restock_logistics WHERE order_id=$1 ORDER BY seq"
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.LogisticsRecord
	for rows.Next() {
		var rec model.LogisticsRecord
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.WaybillNumber, &rec.Carrier, &rec.ShippedQuantity,
			&rec.Confirmed, &rec.ConfirmTime, &rec.ConfirmedBy, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func orderDest(o *model.RestockOrder) []any {
	return []any{
		&o.ID, &o.SKC, &o.ShopRef, &o.PlanQuantity, &o.AcceptedQuantity, &o.ReductionReason, &o.DeclineReason,
		&o.Review, &o.ReviewedBy, &o.ReviewedAt, &o.ArrivedQuantity, &o.Status, &o.Version, &o.CreatedAt, &o.UpdatedAt,
		&o.CompletedAt, &o.CancelledAt,
	}
}
