package model

// Aggregate is the unit of consistency: an order together with its logistics ledger.
type Aggregate struct {
	Order     RestockOrder
	Logistics []LogisticsRecord
}

// Clone deep-copies the aggregate.
func (a *Aggregate) Clone() *Aggregate {
	c := &Aggregate{Order: a.Order.Clone()}
	if a.Logistics != nil {
		c.Logistics = make([]LogisticsRecord, len(a.Logistics))
		for i, r := range a.Logistics {
			c.Logistics[i] = r.Clone()
		}
	}
	return c
}

// Record returns the ledger entry with the given id.
func (a *Aggregate) Record(id string) (*LogisticsRecord, bool) {
	for i := range a.Logistics {
		if a.Logistics[i].ID == id {
			return &a.Logistics[i], true
		}
	}
	return nil, false
}

// Changes describes what a mutation did to an aggregate.
type Changes struct {
	OrderChanged bool
	Appended     []LogisticsRecord
	Confirmed    []LogisticsRecord
}

// Empty reports whether nothing has to be persisted.
func (c Changes) Empty() bool {
	return !c.OrderChanged && len(c.Appended) == 0 && len(c.Confirmed) == 0
}

// Diff compares a against an earlier snapshot of the same aggregate.
// The ledger is append-only, so records past len(before.Logistics) are new.
func (a *Aggregate) Diff(before *Aggregate) Changes {
	var ch Changes
	ch.OrderChanged = !a.Order.Equal(before.Order)
	for i, r := range a.Logistics {
		if i >= len(before.Logistics) {
			ch.Appended = append(ch.Appended, r)
			continue
		}
		if r.Confirmed && !before.Logistics[i].Confirmed {
			ch.Confirmed = append(ch.Confirmed, r)
		}
	}
	return ch
}
