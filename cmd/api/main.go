// Package main is the entry point for the media download API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/multigrab/multigrab/internal/config"
	"github.com/multigrab/multigrab/internal/infra/cache"
	"github.com/multigrab/multigrab/internal/infra/fs"
	"github.com/multigrab/multigrab/internal/service/downloader"
	transport "github.com/multigrab/multigrab/internal/transport/http"
	"github.com/multigrab/multigrab/internal/transport/http/middleware"
	"github.com/multigrab/multigrab/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFormat := "text"
	if cfg.IsProduction() {
		logFormat = "json"
	}
	if err := logger.Setup(&logger.Config{
		Level:  cfg.LogLevel,
		Format: logFormat,
		File:   cfg.LogFile,
	}); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	runner := downloader.NewRunner(cfg.YtDlpPath, slog.Default())
	if version, err := runner.Version(); err != nil {
		slog.Warn("yt-dlp not available, downloads will fail", "error", err)
	} else {
		slog.Info("yt-dlp found", "version", version)
	}

	workspace, err := fs.NewWorkspace(cfg.TempDir, slog.Default())
	if err != nil {
		slog.Error("failed to prepare temp dir", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleaner := fs.NewCleaner(workspace, cfg.TempMaxAge, cfg.CleanupInterval)
	cleaner.Start(ctx)
	defer cleaner.Stop()

	videoCache := cache.NewVideoCache(cfg.InfoCacheTTL, 10*time.Minute)

	limiter := middleware.NewRateLimiter(&middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimitRPM,
		Burst:             cfg.RateLimitBurst,
		CleanupInterval:   10 * time.Minute,
	})
	defer limiter.Stop()

	handlers := transport.NewHandlers(runner, workspace, videoCache)
	router := transport.NewRouter(cfg, handlers, limiter)
	server := transport.NewServer(":"+cfg.Port, router)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
