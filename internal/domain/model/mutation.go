package model

import "time"

// Mutation is a typed transition applied to an aggregate under the store's lock.
// Apply must only touch the aggregate it receives and report rejections as errors.
type Mutation interface {
	Name() string
	Issuer() Actor
	Apply(agg *Aggregate, now time.Time) error
}
