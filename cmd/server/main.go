package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/provimatch/backend/config"
	httpDelivery "github.com/provimatch/backend/internal/delivery/http"
	"github.com/provimatch/backend/internal/infrastructure/cache"
	"github.com/provimatch/backend/internal/infrastructure/catalog"
	"github.com/provimatch/backend/internal/infrastructure/lexicon"
	"github.com/provimatch/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	sugar := logger.Sugar()
	sugar.Infow("starting provimatch backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	// Initialize infrastructure dependencies
	lexicons, err := lexicon.NewStore(cfg.Lexicon.Dir, sugar)
	if err != nil {
		sugar.Fatalw("lexicon load failed", "error", err)
	}

	sigCache, err := cache.NewSignatureCache(cfg.Cache.SignatureSize)
	if err != nil {
		sugar.Fatalw("signature cache init failed", "error", err)
	}

	// Cached signatures embed dictionary-derived fields, drop them on reload
	lexicons.OnReload(sigCache.Purge)

	catalogRepo := catalog.NewMemoryRepository()

	// Initialize usecase layer
	matcher := usecase.NewMatchingService(lexicons, sigCache, sugar, usecase.MatchServiceConfig{
		MinScore:           cfg.Matching.MinScore,
		FatTolerancePct:    cfg.Matching.FatTolerancePct,
		PackTolerance:      cfg.Matching.PackTolerance,
		DefaultTopN:        cfg.Matching.TopN,
		Workers:            cfg.Matching.Workers,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	sugar.Infow("matching configured",
		"minScore", cfg.Matching.MinScore,
		"fatTolerancePct", cfg.Matching.FatTolerancePct,
		"packTolerance", cfg.Matching.PackTolerance,
		"topN", cfg.Matching.TopN,
		"debug", cfg.Matching.EnableDebugLogging,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matcher, catalogRepo, lexicons, sugar)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, sugar)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	sugar.Infow("server listening", "addr", addr)

	if err := router.Run(addr); err != nil {
		sugar.Fatalw("server stopped", "error", err)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	var zc zap.Config
	if cfg.Server.Environment == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
