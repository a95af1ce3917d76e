package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
)

// claimLease is how long a claimed event stays hidden from other dispatchers.
const claimLease = time.Minute

const eventColumns = `id, order_id, skc, shop_ref, from_status, to_status, operation, actor_id, actor_role, occurred_at`

func (r *eventRepository) ClaimPending(ctx context.Context, limit int) ([]model.StatusEvent, error) {
	if limit <= 0 {
		return nil, nil
	}
	const selectQuery = `SELECT ` + eventColumns + `
                         FROM restock_events
                         WHERE dispatched_at IS NULL AND (claimed_at IS NULL OR claimed_at < $1)
                         ORDER BY id
                         LIMIT $2
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE restock_events SET claimed_at=$1 WHERE id = ANY($2)`

	var events []model.StatusEvent
	err := r.storage.retry(ctx, "claim events", func() error {
		events = nil
		return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
			now := r.storage.now().UTC()
			rows, err := tx.Query(ctx, selectQuery, now.Add(-claimLease), limit)
			if err != nil {
				return err
			}
			ids := make([]int64, 0, limit)
			for rows.Next() {
				var e model.StatusEvent
				if err := rows.Scan(&e.ID, &e.OrderID, &e.SKC, &e.ShopRef, &e.From, &e.To,
					&e.Operation, &e.ActorID, &e.ActorRole, &e.OccurredAt); err != nil {
					rows.Close()
					return err
				}
				events = append(events, e)
				ids = append(ids, e.ID)
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}
			if _, err := tx.Exec(ctx, claimQuery, now, ids); err != nil {
				return fmt.Errorf("claim events: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) MarkDispatched(ctx context.Context, eventID int64) error {
	const query = `UPDATE restock_events SET dispatched_at=$2 WHERE id=$1`
	return r.exec(ctx, "mark event dispatched", query, eventID, r.storage.now().UTC())
}

func (r *eventRepository) Release(ctx context.Context, eventID int64) error {
	const query = `UPDATE restock_events SET claimed_at=NULL WHERE id=$1 AND dispatched_at IS NULL`
	return r.exec(ctx, "release event", query, eventID)
}

func (r *eventRepository) exec(ctx context.Context, op, query string, eventID int64, extra ...any) error {
	args := append([]any{eventID}, extra...)
	return r.storage.retry(ctx, op, func() error {
		tag, err := r.storage.pool.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: event %d", domainErrors.ErrNotFound, eventID)
		}
		return nil
	})
}
