package model

import "time"

// StatusEvent is an outbox entry emitted whenever an order changes status.
type StatusEvent struct {
	ID         int64
	OrderID    int64
	SKC        string
	ShopRef    string
	From       OrderStatus
	To         OrderStatus
	Operation  string
	ActorID    string
	ActorRole  Role
	OccurredAt time.Time
}
