package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/domain/lifecycle"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/domain/repository"
)

// ReviewUseCase is the buyer-side gate for reductions and refusals.
type ReviewUseCase struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewReviewUseCase constructs ReviewUseCase.
func NewReviewUseCase(orders repository.OrderRepository, logger *zap.Logger) *ReviewUseCase {
	return &ReviewUseCase{orders: orders, logger: orNop(logger)}
}

// ResolveReduction approves a reduced quantity for production or cancels the order.
func (u *ReviewUseCase) ResolveReduction(ctx context.Context, actor model.Actor, orderID int64, approve bool) (*model.Aggregate, error) {
	agg, err := u.orders.Apply(ctx, orderID, reductionResolution{actor: actor, approve: approve})
	if err != nil {
		return nil, err
	}
	logApplied(u.logger, OperationResolveReduction, actor, agg)
	return agg, nil
}

// ConfirmCancellation acknowledges a merchant refusal and cancels the order.
func (u *ReviewUseCase) ConfirmCancellation(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error) {
	agg, err := u.orders.Apply(ctx, orderID, cancellationConfirmation{actor: actor})
	if err != nil {
		return nil, err
	}
	logApplied(u.logger, OperationConfirmCancellation, actor, agg)
	return agg, nil
}

type reductionResolution struct {
	actor   model.Actor
	approve bool
}

func (m reductionResolution) Name() string        { return OperationResolveReduction }
func (m reductionResolution) Issuer() model.Actor { return m.actor }

func (m reductionResolution) Apply(agg *model.Aggregate, now time.Time) error {
	order := &agg.Order
	if err := authorize(m.actor, *order, model.RoleBuyer); err != nil {
		return err
	}

	event, outcome := lifecycle.EventRejectReduction, model.ReviewRejected
	if m.approve {
		event, outcome = lifecycle.EventApproveReduction, model.ReviewApproved
	}
	to, err := lifecycle.Transition(order.Status, event)
	if err != nil {
		return err
	}
	order.Review = outcome
	order.ReviewedBy = m.actor.ID
	order.ReviewedAt = &now
	settle(order, to, now)
	return nil
}

type cancellationConfirmation struct {
	actor model.Actor
}

func (m cancellationConfirmation) Name() string        { return OperationConfirmCancellation }
func (m cancellationConfirmation) Issuer() model.Actor { return m.actor }

func (m cancellationConfirmation) Apply(agg *model.Aggregate, now time.Time) error {
	order := &agg.Order
	if err := authorize(m.actor, *order, model.RoleBuyer); err != nil {
		return err
	}
	to, err := lifecycle.Transition(order.Status, lifecycle.EventConfirmCancellation)
	if err != nil {
		return err
	}
	order.ReviewedBy = m.actor.ID
	order.ReviewedAt = &now
	settle(order, to, now)
	return nil
}
