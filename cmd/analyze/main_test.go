package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/coffeeshop/internal/charts"
	"github.com/mmynk/coffeeshop/internal/config"
	"github.com/mmynk/coffeeshop/internal/generator"
	"github.com/mmynk/coffeeshop/internal/storage/sqlite"
)

func TestRun_MissingDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "missing.db")

	err := run(context.Background(), &cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, sqlite.ErrDatabaseNotFound)

	_, statErr := os.Stat(cfg.DBPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "analyze must not create the database")
}

func TestRun_PrintsStatisticsAndWritesCharts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "coffee_shop.db")
	cfg.OutputDir = filepath.Join(dir, "analysis_output")

	store, err := sqlite.New(cfg.DBPath)
	require.NoError(t, err)
	gcfg := generator.DefaultConfig()
	gcfg.Transactions = 120
	gcfg.Seed = 5
	g, err := generator.New(store, gcfg)
	require.NoError(t, err)
	_, err = g.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	var out bytes.Buffer
	require.NoError(t, run(ctx, &cfg, &out))

	assert.Contains(t, out.String(), "Total Transactions: 120")
	assert.Contains(t, out.String(), "Average Transaction Value: $")
	for _, name := range charts.Files() {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}
}
