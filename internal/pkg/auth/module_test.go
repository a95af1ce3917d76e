package auth

import (
	"testing"
	"time"

	"github.com/polkiloo/restock/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func TestNewKeyHasher(t *testing.T) {
	hasher := newKeyHasher()
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestNewTokenStrategy(t *testing.T) {
	strategy := newTokenStrategy(strategyParams{Config: &config.Config{JWTSecret: "top-secret"}})
	jwtStrategy, ok := strategy.(*JWTStrategy)
	if !ok {
		t.Fatalf("expected *JWTStrategy, got %T", strategy)
	}
	if string(jwtStrategy.secret) != "top-secret" {
		t.Fatalf("unexpected secret: %q", string(jwtStrategy.secret))
	}
	if jwtStrategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", jwtStrategy.ttl)
	}
}

func TestNewAPIKeyVerifier(t *testing.T) {
	verifier := newAPIKeyVerifier(verifierParams{
		Config: &config.Config{SeedAPIKeyHash: "$2a$hash"},
		Hasher: NewBcryptHasher(0),
	})
	if !verifier.Enabled() || verifier.hash != "$2a$hash" {
		t.Fatalf("unexpected verifier: %+v", verifier)
	}
}
