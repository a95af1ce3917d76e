package test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/lifecycle"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/domain/repository"
)

// MemoryStore is an in-memory aggregate store with the same contract as the
// PostgreSQL one: mutations run on a copy under a per-order lock, are
// verified, and only then become visible.
type MemoryStore struct {
	mu     sync.Mutex
	locks  map[int64]*sync.Mutex
	orders map[int64]*model.Aggregate
	events []storedEvent
	nextID int64

	Now func() time.Time
	// ApplyHook runs inside the order lock before the mutation, for interleaving tests.
	ApplyHook func(orderID int64)
	// Err, when set, is returned by every call.
	Err error
}

type storedEvent struct {
	event      model.StatusEvent
	claimed    bool
	dispatched bool
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks:  make(map[int64]*sync.Mutex),
		orders: make(map[int64]*model.Aggregate),
		Now:    time.Now,
	}
}

// Orders returns the store as an order repository.
func (s *MemoryStore) Orders() repository.OrderRepository { return s }

// Events returns the store as an outbox repository.
func (s *MemoryStore) Events() repository.EventRepository { return s }

func (s *MemoryStore) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create stores a new order in pendingAcceptance.
func (s *MemoryStore) Create(ctx context.Context, input model.NewOrder) (*model.RestockOrder, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if strings.TrimSpace(input.SKC) == "" || strings.TrimSpace(input.ShopRef) == "" {
		return nil, fmt.Errorf("%w: skc and shop are required", domainErrors.ErrInvalidInput)
	}
	if input.PlanQuantity <= 0 {
		return nil, fmt.Errorf("%w: plan quantity must be positive", domainErrors.ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := s.now()
	agg := &model.Aggregate{Order: model.RestockOrder{
		ID:           s.nextID,
		SKC:          strings.TrimSpace(input.SKC),
		ShopRef:      strings.TrimSpace(input.ShopRef),
		PlanQuantity: input.PlanQuantity,
		Status:       model.StatusPendingAcceptance,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
	if err := lifecycle.Verify(nil, agg); err != nil {
		return nil, err
	}
	s.orders[agg.Order.ID] = agg
	s.locks[agg.Order.ID] = &sync.Mutex{}
	order := agg.Order.Clone()
	return &order, nil
}

// Seed stores a prepared aggregate as is, for tests that start mid-lifecycle.
func (s *MemoryStore) Seed(agg *model.Aggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if agg.Order.ID > s.nextID {
		s.nextID = agg.Order.ID
	}
	s.orders[agg.Order.ID] = agg.Clone()
	s.locks[agg.Order.ID] = &sync.Mutex{}
}

// Get returns a copy of the aggregate.
func (s *MemoryStore) Get(ctx context.Context, orderID int64) (*model.Aggregate, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	agg, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
	}
	return agg.Clone(), nil
}

// List filters and paginates orders newest first.
func (s *MemoryStore) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	s.mu.Lock()
	matched := make([]model.RestockOrder, 0, len(s.orders))
	for _, agg := range s.orders {
		if filter.Status != nil && agg.Order.Status != *filter.Status {
			continue
		}
		if filter.ShopRef != "" && agg.Order.ShopRef != filter.ShopRef {
			continue
		}
		matched = append(matched, agg.Order.Clone())
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	result := &model.OrderPage{Total: int64(len(matched)), Page: page, PageSize: size, Items: []model.RestockOrder{}}
	start := (page - 1) * size
	if start < len(matched) {
		end := start + size
		if end > len(matched) {
			end = len(matched)
		}
		result.Items = matched[start:end]
	}
	return result, nil
}

// ListLogistics returns the ledger of an order.
func (s *MemoryStore) ListLogistics(ctx context.Context, orderID int64) ([]model.LogisticsRecord, error) {
	agg, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return agg.Logistics, nil
}

// Apply runs the mutation under the order lock.
func (s *MemoryStore) Apply(ctx context.Context, orderID int64, mutation model.Mutation) (*model.Aggregate, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	lock, ok := s.locks[orderID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
	}

	lock.Lock()
	defer lock.Unlock()

	if s.ApplyHook != nil {
		s.ApplyHook(orderID)
	}

	s.mu.Lock()
	before := s.orders[orderID].Clone()
	s.mu.Unlock()

	after := before.Clone()
	now := s.now()
	if err := mutation.Apply(after, now); err != nil {
		return nil, err
	}
	if err := lifecycle.Verify(before, after); err != nil {
		return nil, err
	}
	if after.Diff(before).Empty() {
		return after, nil
	}
	after.Order.UpdatedAt = now
	after.Order.Version = before.Order.Version + 1

	s.mu.Lock()
	s.orders[orderID] = after.Clone()
	if before.Order.Status != after.Order.Status {
		s.events = append(s.events, storedEvent{event: model.StatusEvent{
			ID:         int64(len(s.events) + 1),
			OrderID:    orderID,
			SKC:        after.Order.SKC,
			ShopRef:    after.Order.ShopRef,
			From:       before.Order.Status,
			To:         after.Order.Status,
			Operation:  mutation.Name(),
			ActorID:    mutation.Issuer().ID,
			ActorRole:  mutation.Issuer().Role,
			OccurredAt: now,
		}})
	}
	s.mu.Unlock()
	return after, nil
}

// ClaimPending hands out events not yet claimed or dispatched.
func (s *MemoryStore) ClaimPending(ctx context.Context, limit int) ([]model.StatusEvent, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var claimed []model.StatusEvent
	for i := range s.events {
		if len(claimed) >= limit {
			break
		}
		e := &s.events[i]
		if e.claimed || e.dispatched {
			continue
		}
		e.claimed = true
		claimed = append(claimed, e.event)
	}
	return claimed, nil
}

// MarkDispatched records successful delivery of an event.
func (s *MemoryStore) MarkDispatched(ctx context.Context, eventID int64) error {
	return s.updateEvent(eventID, func(e *storedEvent) { e.dispatched = true })
}

// Release returns a claimed event to the pending pool.
func (s *MemoryStore) Release(ctx context.Context, eventID int64) error {
	return s.updateEvent(eventID, func(e *storedEvent) { e.claimed = false })
}

func (s *MemoryStore) updateEvent(eventID int64, fn func(*storedEvent)) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].event.ID == eventID {
			fn(&s.events[i])
			return nil
		}
	}
	return fmt.Errorf("%w: event %d", domainErrors.ErrNotFound, eventID)
}

// StatusEvents lists every recorded status event, dispatched or not.
func (s *MemoryStore) StatusEvents() []model.StatusEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StatusEvent, len(s.events))
	for i, e := range s.events {
		out[i] = e.event
	}
	return out
}

// Emit appends a pending status event directly and returns its id.
func (s *MemoryStore) Emit(event model.StatusEvent) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = int64(len(s.events) + 1)
	s.events = append(s.events, storedEvent{event: event})
	return event.ID
}

// Claimed reports whether an event is currently claimed and not yet dispatched.
func (s *MemoryStore) Claimed(eventID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.event.ID == eventID {
			return e.claimed && !e.dispatched
		}
	}
	return false
}

// Dispatched reports whether an event has been marked dispatched.
func (s *MemoryStore) Dispatched(eventID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.event.ID == eventID {
			return e.dispatched
		}
	}
	return false
}

var (
	_ repository.Factory         = (*MemoryStore)(nil)
	_ repository.OrderRepository = (*MemoryStore)(nil)
	_ repository.EventRepository = (*MemoryStore)(nil)
)
