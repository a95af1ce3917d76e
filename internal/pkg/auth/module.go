package auth

import (
	"github.com/polkiloo/restock/internal/config"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newKeyHasher),
	fx.Provide(newTokenStrategy),
	fx.Provide(newAPIKeyVerifier),
)

func newKeyHasher() KeyHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewJWTStrategy(p.Config.JWTSecret, Options{})
}

type verifierParams struct {
	fx.In

	Config *config.Config
	Hasher KeyHasher
}

func newAPIKeyVerifier(p verifierParams) *APIKeyVerifier {
	return NewAPIKeyVerifier(p.Config.SeedAPIKeyHash, p.Hasher)
}
