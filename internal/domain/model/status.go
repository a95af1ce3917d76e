package model

import (
	"fmt"
	"strings"
)

// OrderStatus is the externally visible state of a restock order.
type OrderStatus string

const (
	StatusPendingAcceptance             OrderStatus = "PENDING_ACCEPTANCE"
	StatusPendingReview                 OrderStatus = "PENDING_REVIEW"
	StatusPendingCancelConfirmation     OrderStatus = "PENDING_CANCEL_CONFIRMATION"
	StatusInProduction                  OrderStatus = "IN_PRODUCTION"
	StatusAwaitingWarehouseConfirmation OrderStatus = "AWAITING_WAREHOUSE_CONFIRMATION"
	StatusCompleted                     OrderStatus = "COMPLETED"
	StatusCancelled                     OrderStatus = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []OrderStatus{
	StatusPendingAcceptance,
	StatusPendingReview,
	StatusPendingCancelConfirmation,
	StatusInProduction,
	StatusAwaitingWarehouseConfirmation,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus accepts both the canonical and lower camel case spelling.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	normalized := strings.TrimSpace(raw)
	for _, known := range Statuses {
		if strings.EqualFold(normalized, string(known)) || strings.EqualFold(normalized, camel(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}

func camel(s OrderStatus) string {
	parts := strings.Split(strings.ToLower(string(s)), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// ReviewOutcome records the buyer decision on a reduced quantity.
type ReviewOutcome string

const (
	ReviewNone     ReviewOutcome = ""
	ReviewApproved ReviewOutcome = "APPROVED"
	ReviewRejected ReviewOutcome = "REJECTED"
)
