// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botuai88-lab/Sohaco-KOC/internal/api"
	"github.com/botuai88-lab/Sohaco-KOC/internal/cache"
	"github.com/botuai88-lab/Sohaco-KOC/internal/config"
	"github.com/botuai88-lab/Sohaco-KOC/internal/service"
	"github.com/botuai88-lab/Sohaco-KOC/internal/sheet"
	"github.com/botuai88-lab/Sohaco-KOC/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Sheet.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("sheet endpoint is not configured")
	}

	// Initialize dashboard cache (noop unless CACHE_ENABLED)
	dashCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Initialize gateway and service
	gateway := sheet.NewClient(cfg.Sheet, &http.Client{Timeout: 30 * time.Second})
	kocService := service.NewKOCService(gateway, dashCache)

	// Warm the collection; a failed first fetch is not fatal, the
	// service retries lazily on the next request.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := kocService.Refresh(warmCtx); err != nil {
		logger.Log.Warn().Err(err).Msg("initial sheet fetch failed")
	}
	warmCancel()

	// Initialize HTTP server
	router := api.NewRouter(kocService, cfg.Server.AllowedOrigins)
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
