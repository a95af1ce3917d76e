package usecase

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
)

// Operation names used for status events and logs.
const (
	OperationDeclareAcceptedQuantity = "declare_accepted_quantity"
	OperationDeclineAcceptance       = "decline_acceptance"
	OperationResolveReduction        = "resolve_reduction"
	OperationConfirmCancellation     = "confirm_cancellation"
	OperationRecordShipment          = "record_shipment"
	OperationConfirmArrival          = "confirm_arrival"
)

// authorize hides orders of other shops and rejects callers of the wrong role.
func authorize(actor model.Actor, order model.RestockOrder, roles ...model.Role) error {
	if !actor.CanSee(order.ShopRef) {
		return fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, order.ID)
	}
	if actor.Role == model.RoleSystem {
		return nil
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %q may not perform this operation", domainErrors.ErrForbidden, actor.Role)
}

// settle moves the order to `to` and stamps the terminal timestamps.
func settle(order *model.RestockOrder, to model.OrderStatus, now time.Time) {
	order.Status = to
	switch to {
	case model.StatusCompleted:
		order.CompletedAt = &now
	case model.StatusCancelled:
		order.CancelledAt = &now
	}
}

func logApplied(logger *zap.Logger, operation string, actor model.Actor, agg *model.Aggregate) {
	logger.Info("restock order updated",
		zap.String("operation", operation),
		zap.Int64("order_id", agg.Order.ID),
		zap.String("status", agg.Order.Status.String()),
		zap.Int("arrived_quantity", agg.Order.ArrivedQuantity),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", string(actor.Role)),
	)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
