package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/coffeeshop/internal/config"
	"github.com/mmynk/coffeeshop/internal/storage/sqlite"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "data", "coffee_shop.db")
	cfg.MetricsFile = filepath.Join(dir, "generate.prom")
	cfg.Generator.Transactions = 75
	cfg.Generator.Seed = 11

	var out bytes.Buffer
	require.NoError(t, run(ctx, &cfg, &out))
	assert.Contains(t, out.String(), "Generated 75 transactions")
	assert.Contains(t, out.String(), "seed 11")

	store, err := sqlite.Open(cfg.DBPath)
	require.NoError(t, err)
	defer store.Close()

	transactions, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, transactions, 75)

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "coffeeshop_generator_transactions_total 75")
}
