package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/config"
	"github.com/polkiloo/restock/internal/server/http/handlers"
	"github.com/polkiloo/restock/internal/server/http/middleware"
)

// Params are the router dependencies.
type Params struct {
	fx.In

	Config    *config.Config
	Facade    handlers.RestockFacade
	Tokens    middleware.TokenParser
	APIKeys   middleware.KeyVerifier
	Enforcer  middleware.Enforcer
	Responses middleware.ResponseCache
	Logger    *zap.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	logger := p.Logger.Named("http")
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	if c := corsMiddleware(p.Config.CORSOrigins); c != nil {
		engine.Use(c)
	}
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	orderHandler := handlers.NewOrderHandler(p.Facade)
	negotiationHandler := handlers.NewNegotiationHandler(p.Facade)
	logisticsHandler := handlers.NewLogisticsHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	engine.GET("/healthz", healthHandler.Check)

	internal := engine.Group("/api/internal/restock")
	internal.Use(middleware.APIKeyRequired(p.APIKeys), middleware.Idempotency(p.Responses, logger))
	internal.POST("/orders", orderHandler.Create)

	orders := engine.Group("/api/restock/orders")
	orders.Use(
		middleware.AuthRequired(p.Tokens),
		middleware.Authorize(p.Enforcer, logger),
		middleware.Idempotency(p.Responses, logger),
	)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/acceptance", negotiationHandler.Accept)
	orders.POST("/:id/decline", negotiationHandler.Decline)
	orders.POST("/:id/review", negotiationHandler.Review)
	orders.POST("/:id/cancellation", negotiationHandler.ConfirmCancellation)
	orders.POST("/:id/logistics", logisticsHandler.Ship)
	orders.GET("/:id/logistics", logisticsHandler.List)
	orders.POST("/:id/arrival", logisticsHandler.ConfirmArrival)

	return engine
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cleaned := make([]string, 0, len(origins))
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			allowAll = true
		default:
			cleaned = append(cleaned, origin)
		}
	}
	if !allowAll && len(cleaned) == 0 {
		return nil
	}

	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-API-Key"},
		ExposeHeaders: []string{"Idempotent-Replayed", "X-Retryable"},
		MaxAge:        10 * time.Minute,
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = cleaned
	}
	return cors.New(cfg)
}
