// Command generate discards any existing dataset and writes a fresh synthetic
// one: catalog, customer pool and transactions.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/coffeeshop/internal/config"
	"github.com/mmynk/coffeeshop/internal/generator"
	"github.com/mmynk/coffeeshop/internal/metrics"
	"github.com/mmynk/coffeeshop/internal/storage/sqlite"
	"github.com/mmynk/coffeeshop/pkg/logging"
)

func main() {
	cfg, err := config.Load("generate", os.Args[1:])
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

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("Generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	g, err := generator.New(store, cfg.Generator, generator.WithMetrics(metrics.NewGenerator(reg)))
	if err != nil {
		return err
	}

	summary, err := g.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated %d transactions (%d items, %d guest sales) for %d customers and %d products.\n",
		summary.Run.Transactions, summary.Run.Items, summary.GuestTransactions,
		summary.Run.Customers, summary.Run.Products)
	fmt.Fprintf(out, "Window: %s to %s (seed %d)\n",
		summary.Run.WindowStart.Format("2006-01-02"), summary.Run.GeneratedAt.Format("2006-01-02"), summary.Run.Seed)
	fmt.Fprintf(out, "Database: %s\n", cfg.DBPath)

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		slog.Info("Metrics written", "path", cfg.MetricsFile)
	}
	return nil
}
