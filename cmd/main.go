// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/config"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/database"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/handler"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository/memory"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/service"
)

func main() {
	ctx := context.Background()

	// ── 1. Load configuration and logger ─────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := setupLogger(cfg.LogLevel)

	// ── 2. Open the store ────────────────────────────────────────────────
	stores, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	// ── 3. Wire up layers ────────────────────────────────────────────────
	svc := service.New(stores, service.Options{
		PaymentOnManualAdd: cfg.PaymentOnManualAdd,
		StrictPayments:     cfg.StrictPayments,
	}, log)
	router := handler.NewRouter(handler.New(svc, log), cfg.CORSOrigins, log)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Info("server listening", slog.String("addr", srv.Addr), slog.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
		return
	}
	log.Info("server stopped")
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	)
}

// openStores builds the configured backend and returns a function releasing
// its resources.
func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Stores, func(), error) {
	if cfg.Store == config.StoreMemory {
		db := memory.New()
		log.Warn("using in-memory store; data is lost on restart")
		return service.Stores{
			Events:         memory.NewEventRepository(db),
			Users:          memory.NewUserRepository(db),
			Participations: memory.NewParticipationRepository(db),
			Payments:       memory.NewPaymentRepository(db),
			Expenses:       memory.NewExpenseRepository(db),
			Carpool:        memory.NewCarpoolRepository(db),
			Activity:       memory.NewActivityRepository(db),
		}, func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return service.Stores{}, nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return service.Stores{}, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("connected to PostgreSQL", slog.String("host", cfg.Database.Host), slog.String("db", cfg.Database.DBName))

	return service.Stores{
		Events:         repository.NewEventRepository(pool),
		Users:          repository.NewUserRepository(pool),
		Participations: repository.NewParticipationRepository(pool),
		Payments:       repository.NewPaymentRepository(pool),
		Expenses:       repository.NewExpenseRepository(pool),
		Carpool:        repository.NewCarpoolRepository(pool),
		Activity:       repository.NewActivityRepository(pool),
	}, pool.Close, nil
}
