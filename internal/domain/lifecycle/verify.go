package lifecycle

import (
	"fmt"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
)

// Verify checks that after is a legal successor of before.
// before is nil for a freshly created order.
func Verify(before, after *model.Aggregate) error {
	if err := verifyState(after); err != nil {
		return err
	}
	if before == nil {
		return nil
	}

	prev, next := before.Order, after.Order
	if prev.PlanQuantity != next.PlanQuantity {
		return violation("plan quantity changed from %d to %d", prev.PlanQuantity, next.PlanQuantity)
	}
	if prev.AcceptedQuantity != nil {
		if next.AcceptedQuantity == nil || *next.AcceptedQuantity != *prev.AcceptedQuantity {
			return violation("accepted quantity is already set to %d", *prev.AcceptedQuantity)
		}
	}
	if next.ArrivedQuantity < prev.ArrivedQuantity {
		return violation("arrived quantity decreased from %d to %d", prev.ArrivedQuantity, next.ArrivedQuantity)
	}

	if len(after.Logistics) < len(before.Logistics) {
		return violation("logistics records were removed")
	}
	for i, old := range before.Logistics {
		cur := after.Logistics[i]
		if cur.ID != old.ID || cur.ShippedQuantity != old.ShippedQuantity ||
			cur.WaybillNumber != old.WaybillNumber || cur.Carrier != old.Carrier {
			return violation("logistics record %s was rewritten", old.ID)
		}
		if old.Confirmed && !cur.Confirmed {
			return violation("logistics record %s was unconfirmed", old.ID)
		}
	}

	if prev.Status == next.Status {
		if prev.Status.IsTerminal() && !after.Diff(before).Empty() {
			return fmt.Errorf("%w: order is %s and accepts no further changes", domainErrors.ErrInvalidTransition, prev.Status)
		}
		return nil
	}
	if !Allowed(prev.Status, next.Status) {
		return fmt.Errorf("%w: %s cannot move to %s", domainErrors.ErrInvalidTransition, prev.Status, next.Status)
	}
	return nil
}

func verifyState(agg *model.Aggregate) error {
	order := agg.Order
	if order.PlanQuantity <= 0 {
		return violation("plan quantity %d is not positive", order.PlanQuantity)
	}
	if order.AcceptedQuantity != nil {
		accepted := *order.AcceptedQuantity
		if accepted <= 0 || accepted > order.PlanQuantity {
			return violation("accepted quantity %d outside (0, %d]", accepted, order.PlanQuantity)
		}
	}
	if order.IsReduction() != (order.ReductionReason != "") {
		return violation("reduction reason must be present exactly when quantity is reduced")
	}
	if order.Review != model.ReviewNone && !order.IsReduction() {
		return violation("review recorded without a reduction")
	}

	for _, r := range agg.Logistics {
		if r.OrderID != order.ID {
			return violation("logistics record %s belongs to order %d", r.ID, r.OrderID)
		}
		if r.ShippedQuantity <= 0 {
			return violation("logistics record %s has non-positive quantity", r.ID)
		}
		if r.Confirmed != (r.ConfirmTime != nil) {
			return violation("logistics record %s confirm time out of sync", r.ID)
		}
	}
	if sum := model.ConfirmedQuantity(agg.Logistics); order.ArrivedQuantity != sum {
		return violation("arrived quantity %d differs from confirmed total %d", order.ArrivedQuantity, sum)
	}

	if projected := ProjectAggregate(agg); order.Status != projected {
		return violation("status %s differs from projected %s", order.Status, projected)
	}
	if order.IsReduction() && order.Review != model.ReviewApproved {
		switch order.Status {
		case model.StatusInProduction, model.StatusAwaitingWarehouseConfirmation, model.StatusCompleted:
			return violation("reduced order reached %s without approval", order.Status)
		}
	}
	if (order.Status == model.StatusCompleted) != (order.CompletedAt != nil) {
		return violation("completion time out of sync with status %s", order.Status)
	}
	if (order.Status == model.StatusCancelled) != (order.CancelledAt != nil) {
		return violation("cancellation time out of sync with status %s", order.Status)
	}
	return nil
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domainErrors.ErrInvariantViolation, fmt.Sprintf(format, args...))
}
