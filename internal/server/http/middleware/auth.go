package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restock/internal/domain/model"
	pkgAuth "github.com/polkiloo/restock/internal/pkg/auth"
)

const (
	// ActorContextKey is a gin context key for the authenticated actor.
	ActorContextKey = "actor"
	apiKeyHeader    = "X-API-Key"
)

// TokenParser turns a bearer token into an actor.
type TokenParser interface {
	ParseToken(token string) (model.Actor, error)
}

// KeyVerifier checks the seeding API key.
type KeyVerifier interface {
	Verify(key string) error
}

// AuthRequired ensures the caller carries a valid actor token.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortWithCode(c, http.StatusUnauthorized, "unauthorized", "bearer token is required")
			return
		}

		actor, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abortWithCode(c, http.StatusUnauthorized, "unauthorized", "token is invalid or expired")
				return
			}
			abortWithCode(c, http.StatusInternalServerError, "internal", "internal server error")
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// APIKeyRequired guards internal endpoints with a shared key and acts as the system actor.
func APIKeyRequired(verifier KeyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if err := verifier.Verify(key); err != nil {
			abortWithCode(c, http.StatusUnauthorized, "unauthorized", "api key is invalid")
			return
		}
		c.Set(ActorContextKey, model.SystemActor)
		c.Next()
	}
}

// CurrentActor returns the actor stored by AuthRequired or APIKeyRequired.
func CurrentActor(c *gin.Context) (model.Actor, bool) {
	val, ok := c.Get(ActorContextKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := val.(model.Actor)
	return actor, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func abortWithCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message})
}
