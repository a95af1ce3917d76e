package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/domain/model"
)

// Enforcer decides whether a role may call a route.
type Enforcer interface {
	Allow(role model.Role, path, method string) (bool, error)
}

// Authorize checks the current actor's role against the route policy.
func Authorize(enforcer Enforcer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abortWithCode(c, http.StatusUnauthorized, "unauthorized", "actor is not authenticated")
			return
		}
		allowed, err := enforcer.Allow(actor.Role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			logger.Error("authorization check failed", zap.Error(err))
			abortWithCode(c, http.StatusInternalServerError, "internal", "internal server error")
			return
		}
		if !allowed {
			abortWithCode(c, http.StatusForbidden, "forbidden", "role may not perform this operation")
			return
		}
		c.Next()
	}
}
