package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/provimatch/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.SugaredLogger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		match := v1.Group("/match")
		{
			match.POST("/search", handler.SearchMatches)
			match.POST("/explain", handler.ExplainMatch)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.POST("/items", handler.UpsertItem)
			catalog.GET("/items", handler.ListItems)
			catalog.GET("/items/:id", handler.GetItem)
		}

		v1.POST("/lexicon/reload", handler.ReloadLexicon)
	}

	return router
}
