// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/influencerinsights/backend-go/internal/api"
	"github.com/influencerinsights/backend-go/internal/cache"
	"github.com/influencerinsights/backend-go/internal/config"
	"github.com/influencerinsights/backend-go/internal/engine"
	"github.com/influencerinsights/backend-go/internal/fx"
	"github.com/influencerinsights/backend-go/internal/repository/postgres"
	"github.com/influencerinsights/backend-go/internal/service"
	"github.com/influencerinsights/backend-go/internal/storage"
	"github.com/influencerinsights/backend-go/internal/store"
	"github.com/influencerinsights/backend-go/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Redis backs the FX cache and, optionally, the store snapshot slot
	var redisClient *redis.Client
	if cfg.Cache.Enabled || cfg.Store.Backend == "redis" {
		var err error
		redisClient, err = cache.NewRedisClient(cfg.Cache)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		defer redisClient.Close()
	}

	// Analysis store with its snapshot slot
	snapshots := newSnapshots(cfg.Store, redisClient)
	analysisStore := store.New(ctx, snapshots, cfg.Store.RecentLimit)

	// External collaborators
	engineClient := engine.NewClient(cfg.Analysis.APIBaseURL, time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
	fxClient := fx.NewClient(cfg.FX.BaseURL, time.Duration(cfg.FX.TimeoutSeconds)*time.Second)

	fxCache := cache.NewNoopFXCache()
	if cfg.Cache.Enabled && redisClient != nil {
		fxCache = cache.NewRedisFXCache(redisClient, cfg.Cache.FXTTLSeconds)
	}

	// Services
	fxService := service.NewFXService(fxClient, fxCache)
	services := &api.Services{
		Analysis:   service.NewAnalysisService(engineClient, analysisStore, cfg.Analysis.DefaultVideoCount),
		Calculator: service.NewCalculatorService(fxService),
		FX:         fxService,
	}

	// Credential store only runs against a configured database
	if cfg.Database.Configured() {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		services.Auth = service.NewAuthService(postgres.NewUserRepository(db))
	} else {
		logger.Log.Info().Msg("No database configured, auth endpoints disabled")
	}

	if cfg.Export.Enabled {
		objectStorage, err := storage.NewMinioClient(cfg.Export)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize export storage")
		}
		services.Export = service.NewExportService(objectStorage)
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func newSnapshots(cfg config.StoreConfig, redisClient *redis.Client) store.SnapshotStore {
	switch cfg.Backend {
	case "redis":
		if redisClient == nil {
			logger.Log.Fatal().Msg("STORE_BACKEND=redis requires redis configuration")
		}
		return store.NewRedisSnapshots(redisClient, cfg.Slot)
	case "memory":
		return store.NewNoopSnapshots()
	default:
		return store.NewFileSnapshots(cfg.DataDir, cfg.Slot)
	}
}
