// Command server serves the interactive dashboard over the generated dataset.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/coffeeshop/internal/config"
	"github.com/mmynk/coffeeshop/internal/dashboard"
	"github.com/mmynk/coffeeshop/internal/metrics"
	"github.com/mmynk/coffeeshop/internal/middleware"
	"github.com/mmynk/coffeeshop/internal/report"
	"github.com/mmynk/coffeeshop/internal/storage/sqlite"
	"github.com/mmynk/coffeeshop/pkg/logging"
)

func main() {
	cfg, err := config.Load("server", os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := load(ctx, cfg.DBPath)
	if errors.Is(err, sqlite.ErrDatabaseNotFound) {
		fmt.Fprintf(os.Stderr, "database not found at %s: run `generate` first\n", cfg.DBPath)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	slog.Info("Dataset loaded",
		"database", cfg.DBPath,
		"transactions", len(data.Transactions),
		"items", len(data.Items),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := dashboard.New(data,
		dashboard.WithMetrics(metrics.NewHTTP(reg), reg),
		dashboard.WithRateLimiter(middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)),
	)
	handler := middleware.Chain(middleware.Recovery(), middleware.Logging())(srv)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Dashboard server starting", "address", cfg.Server.Address)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received", "timeout", cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Server stopped")
	}
}

// load reads the whole dataset into memory; the store is closed afterwards.
func load(ctx context.Context, dbPath string) (*report.Dataset, error) {
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return report.Load(ctx, store)
}
