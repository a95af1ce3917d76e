package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/lifecycle"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/domain/repository"
)

// ArrivalUseCase reconciles warehouse arrivals against the order target.
type ArrivalUseCase struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewArrivalUseCase constructs ArrivalUseCase.
func NewArrivalUseCase(orders repository.OrderRepository, logger *zap.Logger) *ArrivalUseCase {
	return &ArrivalUseCase{orders: orders, logger: orNop(logger)}
}

// ConfirmArrival confirms one logistics record, or every unconfirmed one when
// recordID is nil. Each record's confirmed flag is checked and set under the
// order lock, so a record is counted at most once.
func (u *ArrivalUseCase) ConfirmArrival(ctx context.Context, actor model.Actor, orderID int64, recordID *string) (*model.Aggregate, error) {
	m := arrivalConfirmation{actor: actor}
	if recordID != nil {
		id := strings.TrimSpace(*recordID)
		if id == "" {
			return nil, fmt.Errorf("%w: logistics record id is empty", domainErrors.ErrInvalidInput)
		}
		m.recordID = id
	}

	agg, err := u.orders.Apply(ctx, orderID, m)
	if err != nil {
		return nil, err
	}
	logApplied(u.logger, OperationConfirmArrival, actor, agg)
	return agg, nil
}

type arrivalConfirmation struct {
	actor    model.Actor
	recordID string
}

func (m arrivalConfirmation) Name() string        { return OperationConfirmArrival }
func (m arrivalConfirmation) Issuer() model.Actor { return m.actor }

func (m arrivalConfirmation) Apply(agg *model.Aggregate, now time.Time) error {
	order := &agg.Order
	if err := authorize(m.actor, *order, model.RoleBuyer); err != nil {
		return err
	}

	var pending []*model.LogisticsRecord
	if m.recordID != "" {
		rec, ok := agg.Record(m.recordID)
		if !ok {
			return fmt.Errorf("%w: logistics record %s on order %d", domainErrors.ErrNotFound, m.recordID, order.ID)
		}
		if rec.Confirmed {
			return nil
		}
		pending = append(pending, rec)
	} else {
		for i := range agg.Logistics {
			if !agg.Logistics[i].Confirmed {
				pending = append(pending, &agg.Logistics[i])
			}
		}
	}

	if len(pending) == 0 {
		// Nothing new arrived; still reject orders that cannot take arrivals.
		_, err := lifecycle.Transition(order.Status, lifecycle.EventArrivalPartial)
		return err
	}

	arrived := order.ArrivedQuantity
	for _, rec := range pending {
		arrived += rec.ShippedQuantity
	}
	event := lifecycle.EventArrivalPartial
	if arrived >= order.Target() {
		event = lifecycle.EventArrivalComplete
	}
	to, err := lifecycle.Transition(order.Status, event)
	if err != nil {
		return err
	}

	for _, rec := range pending {
		confirmedAt := now
		rec.Confirmed = true
		rec.ConfirmTime = &confirmedAt
		rec.ConfirmedBy = m.actor.ID
	}
	order.ArrivedQuantity = arrived
	settle(order, to, now)
	return nil
}
