package model

import "time"

// LogisticsRecord is one shipped batch against a restock order.
type LogisticsRecord struct {
	ID              string
	OrderID         int64
	WaybillNumber   string
	Carrier         string
	ShippedQuantity int
	Confirmed       bool
	ConfirmTime     *time.Time
	ConfirmedBy     string
	CreatedAt       time.Time
}

// Clone returns a copy that shares no pointers with r.
func (r LogisticsRecord) Clone() LogisticsRecord {
	c := r
	c.ConfirmTime = cloneTime(r.ConfirmTime)
	return c
}

// ConfirmedQuantity sums shipped quantities of confirmed records.
func ConfirmedQuantity(records []LogisticsRecord) int {
	var total int
	for _, r := range records {
		if r.Confirmed {
			total += r.ShippedQuantity
		}
	}
	return total
}
