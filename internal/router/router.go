package router

import (
	"log/slog"
	"net/http"

	"notifier/internal/common"
	"notifier/internal/config"
	"notifier/internal/domain/delivery"
	"notifier/internal/middleware"
	"notifier/pkg/dispatch"

	"github.com/gin-gonic/gin"
)

// New creates and configures the Gin router with all middleware and routes.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	notifier *dispatch.Notifier,
	deliveryHandler *delivery.Handler,
) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()

	// Global middleware stack (order matters)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))
	r.Use(middleware.Logger(logger))

	// Public routes
	r.GET("/health", healthCheck(notifier))

	// Protected API routes (API key required)
	protectedAPI := r.Group("/api/v1")
	protectedAPI.Use(middleware.Auth(cfg.Auth.APIKeys))
	{
		deliveryHandler.RegisterRoutes(protectedAPI)
	}

	return r
}

// healthCheck handles GET /health
func healthCheck(notifier *dispatch.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		channels := notifier.Channels()
		names := make([]string, len(channels))
		for i, ch := range channels {
			names[i] = ch.String()
		}

		common.Success(c, http.StatusOK, gin.H{
			"status":   "ok",
			"service":  "notifier",
			"channels": names,
		})
	}
}
