package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"notifier/internal/bootstrap"
	"notifier/internal/catalog"
	"notifier/internal/config"
	"notifier/internal/domain/delivery"
	"notifier/internal/infra/queue"
	"notifier/internal/infra/store"

	"github.com/hibiken/asynq"
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

	slog.Info("worker configuration loaded")

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

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
	}

	deliveryWorker := delivery.NewWorker(cat, notifier, deliveryStore)

	// ==========================================
	// Asynq Server (task processing)
	// ==========================================

	asynqServer := queue.NewServer(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Queue.Concurrency,
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(delivery.TaskTypeSend, func(ctx context.Context, task *asynq.Task) error {
		payload, err := delivery.ParseSendPayload(task.Payload())
		if err != nil {
			return err
		}
		return deliveryWorker.ProcessTask(ctx, payload)
	})

	go func() {
		slog.Info("worker starting",
			"concurrency", cfg.Queue.Concurrency,
			"redis", cfg.Redis.Address,
			"channels", len(notifier.Channels()),
		)
		if err := asynqServer.Run(mux); err != nil {
			slog.Error("worker failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// ==========================================
	// Graceful Shutdown
	// ==========================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	asynqServer.Shutdown()
	slog.Info("worker exited gracefully")
}
