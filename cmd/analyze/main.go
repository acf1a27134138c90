// Command analyze prints the general statistics of the generated dataset and
// exports the static charts.
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

	"github.com/mmynk/coffeeshop/internal/charts"
	"github.com/mmynk/coffeeshop/internal/config"
	"github.com/mmynk/coffeeshop/internal/report"
	"github.com/mmynk/coffeeshop/internal/storage/sqlite"
	"github.com/mmynk/coffeeshop/pkg/logging"
)

func main() {
	cfg, err := config.Load("analyze", os.Args[1:])
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
		if errors.Is(err, sqlite.ErrDatabaseNotFound) {
			fmt.Fprintf(os.Stderr, "database not found at %s: run `generate` first\n", cfg.DBPath)
			os.Exit(1)
		}
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintln(out, "Loading data...")
	d, err := report.Load(ctx, store)
	if err != nil {
		return err
	}

	s := d.Summary()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "--- General Statistics ---")
	fmt.Fprintf(out, "Total Revenue: $%s\n", s.TotalRevenue.StringFixed(2))
	fmt.Fprintf(out, "Total Transactions: %d\n", s.Transactions)
	fmt.Fprintf(out, "Average Transaction Value: $%s\n", s.AverageOrderValue.StringFixed(2))
	fmt.Fprintf(out, "Items Sold: %d\n", s.ItemsSold)

	paths, err := charts.Export(ctx, d, cfg.OutputDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(out, "Saved %s\n", p)
	}
	fmt.Fprintf(out, "\nAnalysis complete. Check the %q folder for visualizations.\n", cfg.OutputDir)
	return nil
}
