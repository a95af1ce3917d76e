package test

import (
	"context"
	"errors"
	"sync"

	"github.com/polkiloo/restock/internal/cache"
	"github.com/polkiloo/restock/internal/domain/model"
	pkgAuth "github.com/polkiloo/restock/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied secret.
func (h HasherStub) Hash(secret string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(secret)
	}
	return "hash:" + secret, nil
}

// Compare validates secret against stored hash.
func (h HasherStub) Compare(hash string, secret string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, secret)
	}
	if hash != "hash:"+secret {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(model.Actor) (string, error)
	ParseFn func(string) (model.Actor, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(actor model.Actor) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(actor)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Actor{ID: "buyer-1", Role: model.RoleBuyer}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub resolves every token to a fixed actor unless overridden.
type TokenParserStub struct {
	Actor   model.Actor
	Err     error
	ParseFn func(string) (model.Actor, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return model.Actor{}, s.Err
	}
	return s.Actor, nil
}

// KeyVerifierStub accepts exactly Key.
type KeyVerifierStub struct {
	Key string
}

// Verify compares the supplied key with the configured one.
func (s KeyVerifierStub) Verify(key string) error {
	if s.Key == "" || key != s.Key {
		return pkgAuth.ErrInvalidAPIKey
	}
	return nil
}

// EnforcerStub allows everything unless AllowFn says otherwise.
type EnforcerStub struct {
	AllowFn func(model.Role, string, string) (bool, error)
}

// Allow delegates to AllowFn.
func (s EnforcerStub) Allow(role model.Role, path, method string) (bool, error) {
	if s.AllowFn != nil {
		return s.AllowFn(role, path, method)
	}
	return true, nil
}

// ResponseCacheStub keeps idempotency entries in memory.
type ResponseCacheStub struct {
	Disabled  bool
	LookupErr error

	mu      sync.Mutex
	entries map[string]cache.Entry
	Saved   int
	Freed   int
}

// Enabled reports whether the cache participates.
func (s *ResponseCacheStub) Enabled() bool { return !s.Disabled }

// Lookup returns the entry stored under key.
func (s *ResponseCacheStub) Lookup(_ context.Context, key string) (*cache.Entry, bool, error) {
	if s.LookupErr != nil {
		return nil, false, s.LookupErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &entry, true, nil
}

// Reserve marks key as pending when it is free.
func (s *ResponseCacheStub) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]cache.Entry)
	}
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = cache.Entry{Pending: true}
	return true, nil
}

// Save stores the final response under key.
func (s *ResponseCacheStub) Save(_ context.Context, key string, resp cache.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]cache.Entry)
	}
	s.entries[key] = cache.Entry{Response: &resp}
	s.Saved++
	return nil
}

// Release forgets key.
func (s *ResponseCacheStub) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	s.Freed++
	return nil
}

// Put seeds an entry directly.
func (s *ResponseCacheStub) Put(key string, entry cache.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]cache.Entry)
	}
	s.entries[key] = entry
}

var _ pkgAuth.KeyHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
