package model

import "time"

// RestockOrder is a request to a shop to produce and ship a quantity of one SKC.
type RestockOrder struct {
	ID               int64
	SKC              string
	ShopRef          string
	PlanQuantity     int
	AcceptedQuantity *int
	ReductionReason  string
	DeclineReason    string
	Review           ReviewOutcome
	ReviewedBy       string
	ReviewedAt       *time.Time
	ArrivedQuantity  int
	Status           OrderStatus
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// Target is the quantity whose arrival completes the order.
func (o RestockOrder) Target() int {
	if o.AcceptedQuantity != nil {
		return *o.AcceptedQuantity
	}
	return o.PlanQuantity
}

// IsReduction reports whether the shop accepted less than planned.
func (o RestockOrder) IsReduction() bool {
	return o.AcceptedQuantity != nil && *o.AcceptedQuantity < o.PlanQuantity
}

// Declined reports whether the shop refused the order outright.
func (o RestockOrder) Declined() bool {
	return o.DeclineReason != ""
}

// Clone returns a copy that shares no pointers with o.
func (o RestockOrder) Clone() RestockOrder {
	c := o
	c.AcceptedQuantity = cloneInt(o.AcceptedQuantity)
	c.ReviewedAt = cloneTime(o.ReviewedAt)
	c.CompletedAt = cloneTime(o.CompletedAt)
	c.CancelledAt = cloneTime(o.CancelledAt)
	return c
}

// Equal compares orders by value, dereferencing optional fields.
func (o RestockOrder) Equal(other RestockOrder) bool {
	a, b := o, other
	if !equalInt(a.AcceptedQuantity, b.AcceptedQuantity) ||
		!equalTime(a.ReviewedAt, b.ReviewedAt) ||
		!equalTime(a.CompletedAt, b.CompletedAt) ||
		!equalTime(a.CancelledAt, b.CancelledAt) {
		return false
	}
	a.AcceptedQuantity, b.AcceptedQuantity = nil, nil
	a.ReviewedAt, b.ReviewedAt = nil, nil
	a.CompletedAt, b.CompletedAt = nil, nil
	a.CancelledAt, b.CancelledAt = nil, nil
	return a == b
}

// NewOrder carries the data a buyer-side collaborator supplies at creation.
type NewOrder struct {
	SKC          string
	ShopRef      string
	PlanQuantity int
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status   *OrderStatus
	ShopRef  string
	Page     int
	PageSize int
}

// OrderPage is one page of a filtered listing.
type OrderPage struct {
	Items    []RestockOrder
	Total    int64
	Page     int
	PageSize int
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
