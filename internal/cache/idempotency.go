// Package cache stores replayable responses for idempotent requests in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/restock/internal/config"
)

const (
	defaultPrefix = "restock"
	defaultTTL    = 24 * time.Hour
	pendingTTL    = 30 * time.Second
)

// Response is a cached HTTP answer.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Entry is what is stored under an idempotency key. Pending marks a request
// that is still being handled.
type Entry struct {
	Pending  bool      `json:"pending,omitempty"`
	Response *Response `json:"response,omitempty"`
}

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// IdempotencyStore keeps idempotency entries. A store built from a disabled
// config does nothing and reports Enabled() == false.
type IdempotencyStore struct {
	client kv
	prefix string
	ttl    time.Duration
}

// NewIdempotencyStore connects to Redis when enabled.
func NewIdempotencyStore(cfg config.RedisConfig) *IdempotencyStore {
	if !cfg.Enabled {
		return &IdempotencyStore{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.Addr),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newStore(client, cfg.Prefix, cfg.IdempotencyTTL)
}

func newStore(client kv, prefix string, ttl time.Duration) *IdempotencyStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &IdempotencyStore{client: client, prefix: prefix, ttl: ttl}
}

// Enabled reports whether a Redis client is configured.
func (s *IdempotencyStore) Enabled() bool {
	return s != nil && s.client != nil
}

// Lookup returns the stored entry for key.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (*Entry, bool, error) {
	if !s.Enabled() {
		return nil, false, nil
	}
	raw, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode idempotency entry: %w", err)
	}
	return &entry, true, nil
}

// Reserve marks key as in flight. It returns false when the key is already taken.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	if !s.Enabled() {
		return true, nil
	}
	payload, err := json.Marshal(Entry{Pending: true})
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, s.buildKey(key), payload, pendingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

// Save stores the final response for key.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp Response) error {
	if !s.Enabled() {
		return nil
	}
	payload, err := json.Marshal(Entry{Response: &resp})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.buildKey(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return nil
}

// Release drops a reservation so the request may be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

// Ping checks the Redis connection.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (s *IdempotencyStore) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

func (s *IdempotencyStore) buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return s.prefix + ":idem"
	}
	return fmt.Sprintf("%s:idem:%s", s.prefix, trimmed)
}
