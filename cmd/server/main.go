package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notifier/internal/bootstrap"
	"notifier/internal/catalog"
	"notifier/internal/config"
	"notifier/internal/domain/delivery"
	"notifier/internal/infra/idempotency"
	"notifier/internal/infra/queue"
	"notifier/internal/infra/store"
	"notifier/internal/router"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Notifier (channels + catalog templates). The server only validates
	// against it; the worker does the sending.
	cat := catalog.Default()
	notifier, err := bootstrap.Notifier(cfg, cat, logger)
	if err != nil {
		slog.Error("failed to initialize notifier", "error", err)
		os.Exit(1)
	}

	// Supabase delivery log (optional)
	var deliveryStore delivery.Store
	if cfg.Supabase.Enabled() {
		s, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		if err != nil {
			slog.Error("failed to initialize supabase store", "error", err)
			os.Exit(1)
		}
		deliveryStore = s
		slog.Info("supabase store initialized")
	} else {
		slog.Warn("supabase not configured, delivery log disabled")
	}

	// Asynq Client (for enqueuing tasks)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()
	slog.Info("asynq client initialized", "redis", cfg.Redis.Address)

	// Idempotency keys (optional)
	var guard delivery.IdempotencyGuard
	if cfg.Idempotency.Enabled {
		redisGuard := idempotency.NewRedisGuard(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Idempotency.TTLSec)*time.Second,
		)
		defer redisGuard.Close()
		guard = redisGuard
		slog.Info("idempotency guard initialized", "ttl_sec", cfg.Idempotency.TTLSec)
	}

	// Service
	deliveryService := delivery.NewService(cat, notifier, queue.NewEnqueuer(asynqClient), deliveryStore, guard)

	// Handler
	deliveryHandler := delivery.NewHandler(deliveryService)

	// Router
	r := router.New(cfg, logger, notifier, deliveryHandler)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
