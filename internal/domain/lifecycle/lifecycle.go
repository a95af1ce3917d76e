// Package lifecycle derives restock order status and guards the order state machine.
package lifecycle

import (
	"fmt"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
)

// Event names an input of the order state machine.
type Event string

const (
	EventAcceptFull          Event = "accept_full"
	EventAcceptReduced       Event = "accept_reduced"
	EventDecline             Event = "decline"
	EventApproveReduction    Event = "approve_reduction"
	EventRejectReduction     Event = "reject_reduction"
	EventConfirmCancellation Event = "confirm_cancellation"
	EventShip                Event = "record_shipment"
	EventArrivalPartial      Event = "arrival_partial"
	EventArrivalComplete     Event = "arrival_complete"
)

var transitions = map[model.OrderStatus]map[Event]model.OrderStatus{
	model.StatusPendingAcceptance: {
		EventAcceptFull:    model.StatusInProduction,
		EventAcceptReduced: model.StatusPendingReview,
		EventDecline:       model.StatusPendingCancelConfirmation,
	},
	model.StatusPendingReview: {
		EventApproveReduction: model.StatusInProduction,
		EventRejectReduction:  model.StatusCancelled,
	},
	model.StatusPendingCancelConfirmation: {
		EventConfirmCancellation: model.StatusCancelled,
	},
	model.StatusInProduction: {
		EventShip: model.StatusAwaitingWarehouseConfirmation,
	},
	model.StatusAwaitingWarehouseConfirmation: {
		EventShip:            model.StatusAwaitingWarehouseConfirmation,
		EventArrivalPartial:  model.StatusAwaitingWarehouseConfirmation,
		EventArrivalComplete: model.StatusCompleted,
	},
}

// Transition returns the status reached from `from` on ev.
func Transition(from model.OrderStatus, ev Event) (model.OrderStatus, error) {
	if from.IsTerminal() {
		return from, fmt.Errorf("%w: order is %s and accepts no further changes", domainErrors.ErrInvalidTransition, from)
	}
	to, ok := transitions[from][ev]
	if !ok {
		return from, fmt.Errorf("%w: %s is not allowed while order is %s", domainErrors.ErrInvalidTransition, ev, from)
	}
	return to, nil
}

// Allowed reports whether some event moves an order from `from` to `to`.
func Allowed(from, to model.OrderStatus) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Project derives the single visible status from the order's recorded facts.
func Project(order model.RestockOrder, records []model.LogisticsRecord) model.OrderStatus {
	if order.Declined() {
		if order.CancelledAt != nil {
			return model.StatusCancelled
		}
		return model.StatusPendingCancelConfirmation
	}
	if order.AcceptedQuantity == nil {
		return model.StatusPendingAcceptance
	}
	if order.IsReduction() {
		switch order.Review {
		case model.ReviewApproved:
		case model.ReviewRejected:
			return model.StatusCancelled
		default:
			return model.StatusPendingReview
		}
	}
	if len(records) == 0 {
		return model.StatusInProduction
	}
	if model.ConfirmedQuantity(records) >= order.Target() {
		return model.StatusCompleted
	}
	return model.StatusAwaitingWarehouseConfirmation
}

// ProjectAggregate is Project applied to an aggregate.
func ProjectAggregate(agg *model.Aggregate) model.OrderStatus {
	return Project(agg.Order, agg.Logistics)
}
