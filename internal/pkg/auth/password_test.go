package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(0)
	if hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", hasher.cost)
	}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := hasher.Compare(hash, "secret"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Fatal("expected compare error for wrong secret")
	}
}

func TestBcryptHasher_HashError(t *testing.T) {
	hasher := &BcryptHasher{cost: bcrypt.MaxCost + 1}
	if _, err := hasher.Hash("secret"); err == nil {
		t.Fatal("expected hash error for invalid cost")
	}
}

func TestAPIKeyVerifier(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("seed-key")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	verifier := NewAPIKeyVerifier(" "+hash+"\n", hasher)
	if !verifier.Enabled() {
		t.Fatal("expected verifier to be enabled")
	}
	if err := verifier.Verify("seed-key"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	for _, key := range []string{"", "other"} {
		if err := verifier.Verify(key); !errors.Is(err, ErrInvalidAPIKey) {
			t.Fatalf("expected ErrInvalidAPIKey for %q, got %v", key, err)
		}
	}
}

func TestAPIKeyVerifier_Disabled(t *testing.T) {
	verifier := NewAPIKeyVerifier("", NewBcryptHasher(0))
	if verifier.Enabled() {
		t.Fatal("expected verifier to be disabled")
	}
	if err := verifier.Verify("anything"); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}

	var nilVerifier *APIKeyVerifier
	if nilVerifier.Enabled() {
		t.Fatal("nil verifier must be disabled")
	}
}
