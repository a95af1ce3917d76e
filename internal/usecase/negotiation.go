package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/lifecycle"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/domain/repository"
)

// NegotiationUseCase handles the merchant's answer to a restock order.
type NegotiationUseCase struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewNegotiationUseCase constructs NegotiationUseCase.
func NewNegotiationUseCase(orders repository.OrderRepository, logger *zap.Logger) *NegotiationUseCase {
	return &NegotiationUseCase{orders: orders, logger: orNop(logger)}
}

// DeclareAcceptedQuantity records how much of the plan the merchant will produce.
// A full acceptance goes straight to production, a reduction waits for review
// and must carry a reason.
func (u *NegotiationUseCase) DeclareAcceptedQuantity(ctx context.Context, actor model.Actor, orderID int64, quantity int, reason string) (*model.Aggregate, error) {
	reason, err := cleanReason(reason)
	if err != nil {
		return nil, err
	}
	agg, err := u.orders.Apply(ctx, orderID, acceptanceDeclaration{actor: actor, quantity: quantity, reason: reason})
	if err != nil {
		return nil, err
	}
	logApplied(u.logger, OperationDeclareAcceptedQuantity, actor, agg)
	return agg, nil
}

// DeclineAcceptance records the merchant's outright refusal.
func (u *NegotiationUseCase) DeclineAcceptance(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Aggregate, error) {
	reason, err := cleanReason(reason)
	if err != nil {
		return nil, err
	}
	agg, err := u.orders.Apply(ctx, orderID, acceptanceRefusal{actor: actor, reason: reason})
	if err != nil {
		return nil, err
	}
	logApplied(u.logger, OperationDeclineAcceptance, actor, agg)
	return agg, nil
}

type acceptanceDeclaration struct {
	actor    model.Actor
	quantity int
	reason   string
}

func (m acceptanceDeclaration) Name() string        { return OperationDeclareAcceptedQuantity }
func (m acceptanceDeclaration) Issuer() model.Actor { return m.actor }

func (m acceptanceDeclaration) Apply(agg *model.Aggregate, now time.Time) error {
	order := &agg.Order
	if err := authorize(m.actor, *order, model.RoleMerchant); err != nil {
		return err
	}

	event := lifecycle.EventAcceptFull
	if m.quantity < order.PlanQuantity {
		event = lifecycle.EventAcceptReduced
	}
	to, err := lifecycle.Transition(order.Status, event)
	if err != nil {
		return err
	}
	if order.AcceptedQuantity != nil {
		return fmt.Errorf("%w: accepted quantity is already %d", domainErrors.ErrInvalidTransition, *order.AcceptedQuantity)
	}
	if m.quantity <= 0 || m.quantity > order.PlanQuantity {
		return fmt.Errorf("%w: %d is outside (0, %d]", domainErrors.ErrInvalidQuantity, m.quantity, order.PlanQuantity)
	}

	quantity := m.quantity
	order.AcceptedQuantity = &quantity
	if event == lifecycle.EventAcceptReduced {
		if m.reason == "" {
			return fmt.Errorf("%w: reducing %d to %d requires a reason", domainErrors.ErrMissingJustification, order.PlanQuantity, m.quantity)
		}
		order.ReductionReason = m.reason
	}
	settle(order, to, now)
	return nil
}

type acceptanceRefusal struct {
	actor  model.Actor
	reason string
}

func (m acceptanceRefusal) Name() string        { return OperationDeclineAcceptance }
func (m acceptanceRefusal) Issuer() model.Actor { return m.actor }

func (m acceptanceRefusal) Apply(agg *model.Aggregate, now time.Time) error {
	order := &agg.Order
	if err := authorize(m.actor, *order, model.RoleMerchant); err != nil {
		return err
	}
	to, err := lifecycle.Transition(order.Status, lifecycle.EventDecline)
	if err != nil {
		return err
	}
	if m.reason == "" {
		return fmt.Errorf("%w: declining an order requires a reason", domainErrors.ErrMissingJustification)
	}
	order.DeclineReason = m.reason
	settle(order, to, now)
	return nil
}
