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

	"github.com/example/outreach-scheduler/internal/application"
	"github.com/example/outreach-scheduler/internal/config"
	httptransport "github.com/example/outreach-scheduler/internal/http"
	"github.com/example/outreach-scheduler/internal/persistence/sqlite"
	"github.com/example/outreach-scheduler/internal/scheduler"
	"github.com/example/outreach-scheduler/internal/transport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	defaultLoc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return fmt.Errorf("failed to resolve default timezone %q: %w", cfg.DefaultTimezone, err)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	roomRepo := sqlite.NewRoomRepository(pool)
	promptRepo := sqlite.NewPromptRepository(pool)
	outreachRepo := sqlite.NewOutreachRepository(pool)
	responseRepo := sqlite.NewResponseRepository(pool)

	roomService := application.NewRoomServiceWithLogger(roomRepo, defaultLoc, logger)
	promptService := application.NewPromptServiceWithLogger(promptRepo, roomService, logger)
	correlator := application.NewCorrelatorWithLogger(outreachRepo, responseRepo, logger)
	exporter := application.NewHistoryExporterWithLogger(outreachRepo, logger)

	sender := transport.NewWebhookSenderWithLogger(cfg.SendURL, nil, logger)

	loop := scheduler.New(scheduler.Config{
		Prompts:      promptRepo,
		Outreaches:   outreachRepo,
		Rooms:        roomService,
		Sender:       sender,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})
	if err := loop.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer loop.Stop()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:      httptransport.NewRoomHandler(roomService, logger),
		Prompts:    httptransport.NewPromptHandler(promptService, logger),
		History:    httptransport.NewHistoryHandler(exporter, logger),
		Events:     httptransport.NewEventHandler(correlator, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("outreach scheduler listening", "addr", server.Addr, "poll_interval", cfg.PollInterval)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}

	return nil
}
