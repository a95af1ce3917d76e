package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/restock/internal/cache"
	"github.com/polkiloo/restock/internal/pkg/auth"
	"github.com/polkiloo/restock/internal/pkg/authz"
	"github.com/polkiloo/restock/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(
		func(s auth.Strategy) middleware.TokenParser { return s },
		func(v *auth.APIKeyVerifier) middleware.KeyVerifier { return v },
		func(e *authz.Enforcer) middleware.Enforcer { return e },
		func(s *cache.IdempotencyStore) middleware.ResponseCache { return s },
	),
	fx.Provide(Setup),
)
