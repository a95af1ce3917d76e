package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/repository"
)

const (
	defaultRetryAttempts = 3
	defaultRetryInitial  = 50 * time.Millisecond
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool          pgxPool
	logger        *zap.Logger
	now           func() time.Time
	retryAttempts int
	retryInitial  time.Duration
}

// Option customises Storage.
type Option func(*Storage)

// WithRetry bounds retries of transient database failures.
func WithRetry(attempts int, initial time.Duration) Option {
	return func(s *Storage) {
		if attempts > 0 {
			s.retryAttempts = attempts
		}
		if initial > 0 {
			s.retryInitial = initial
		}
	}
}

// WithClock replaces the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

type orderRepository struct {
	storage *Storage
}

type eventRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *zap.Logger, opts ...Option) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := fromPool(pool, logger, opts...)
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

func fromPool(pool pgxPool, logger *zap.Logger, opts ...Option) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Storage{
		pool:          pool,
		logger:        logger,
		now:           time.Now,
		retryAttempts: defaultRetryAttempts,
		retryInitial:  defaultRetryInitial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order aggregate repository.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

// Events returns the outbox repository.
func (s *Storage) Events() repository.EventRepository {
	return &eventRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restock_orders (
            id BIGSERIAL PRIMARY KEY,
            skc TEXT NOT NULL,
            shop_ref TEXT NOT NULL,
            plan_quantity INTEGER NOT NULL CHECK (plan_quantity > 0),
            accepted_quantity INTEGER,
            reduction_reason TEXT NOT NULL DEFAULT '',
            decline_reason TEXT NOT NULL DEFAULT '',
            review TEXT NOT NULL DEFAULT '',
            reviewed_by TEXT NOT NULL DEFAULT '',
            reviewed_at TIMESTAMPTZ,
            arrived_quantity INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            completed_at TIMESTAMPTZ,
            cancelled_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS restock_logistics (
            seq BIGSERIAL,
            id TEXT PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES restock_orders(id),
            waybill_number TEXT NOT NULL,
            carrier TEXT NOT NULL,
            shipped_quantity INTEGER NOT NULL CHECK (shipped_quantity > 0),
            confirmed BOOLEAN NOT NULL DEFAULT FALSE,
            confirm_time TIMESTAMPTZ,
            confirmed_by TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS restock_events (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES restock_orders(id),
            skc TEXT NOT NULL,
            shop_ref TEXT NOT NULL,
            from_status TEXT NOT NULL,
            to_status TEXT NOT NULL,
            operation TEXT NOT NULL,
            actor_id TEXT NOT NULL,
            actor_role TEXT NOT NULL,
            occurred_at TIMESTAMPTZ NOT NULL,
            claimed_at TIMESTAMPTZ,
            dispatched_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_restock_orders_status ON restock_orders(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_restock_orders_shop ON restock_orders(shop_ref, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_restock_logistics_order ON restock_logistics(order_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_restock_events_pending ON restock_events(id) WHERE dispatched_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	return s.withinTransaction(ctx, pgx.TxOptions{}, fn)
}

func (s *Storage) withinTransaction(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// retry runs op until it succeeds, fails permanently or the attempts run out.
// Only connectivity problems are retried; domain rejections and conflicts
// are returned to the caller as they are.
func (s *Storage) retry(ctx context.Context, op string, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryInitial
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.retryAttempts)), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := classify(fn())
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		s.logger.Warn("transient storage failure",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, b)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", domainErrors.ErrConflictingWrite, pgErr.Message)
		}
	}
	return err
}

func isTransient(err error) bool {
	if domainErrors.IsDomain(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *zap.Logger {
	return s.logger
}
