package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test", nil)
	require.NoError(t, err)

	assert.Equal(t, "./data/coffee_shop.db", cfg.DBPath)
	assert.Equal(t, "analysis_output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2000, cfg.Generator.Transactions)
	assert.Equal(t, 90, cfg.Generator.WindowDays)
	assert.Equal(t, 150, cfg.Generator.Customers)
	assert.Equal(t, 0.3, cfg.Generator.GuestProbability)
	assert.Len(t, cfg.Generator.HourWeights, 13)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_Precedence(t *testing.T) {
	t.Run("env overrides default", func(t *testing.T) {
		t.Setenv("COFFEESHOP_DB_PATH", "/tmp/env.db")
		t.Setenv("COFFEESHOP_GENERATOR_WINDOW_DAYS", "30")

		cfg, err := Load("test", nil)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env.db", cfg.DBPath)
		assert.Equal(t, 30, cfg.Generator.WindowDays)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Setenv("COFFEESHOP_GENERATOR_TRANSACTIONS", "10")

		cfg, err := Load("test", []string{"--transactions", "25", "--seed", "99", "--guest-probability", "0.5"})
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Generator.Transactions)
		assert.Equal(t, uint64(99), cfg.Generator.Seed)
		assert.Equal(t, 0.5, cfg.Generator.GuestProbability)
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "coffeeshop.yaml")
		content := "db-path: /srv/shop.db\ngenerator:\n  customers: 20\nserver:\n  address: 127.0.0.1:9000\n  shutdown-timeout: 3s\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load("test", []string{"--config", path})
		require.NoError(t, err)
		assert.Equal(t, "/srv/shop.db", cfg.DBPath)
		assert.Equal(t, 20, cfg.Generator.Customers)
		assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
		assert.Len(t, cfg.Generator.HourWeights, 13)
		assert.Len(t, cfg.Generator.BasketWeights, 5)
	})

	t.Run("config file weight tables replace defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "coffeeshop.yaml")
		content := "generator:\n  hour-weights:\n    9: 1\n  basket-weights:\n    2: 1\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load("test", []string{"--config", path})
		require.NoError(t, err)
		assert.Equal(t, map[int]float64{9: 1}, cfg.Generator.HourWeights)
		assert.Equal(t, map[int]float64{2: 1}, cfg.Generator.BasketWeights)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero window", []string{"--window-days", "0"}},
		{"negative transactions", []string{"--transactions", "-1"}},
		{"guest probability above one", []string{"--guest-probability", "2"}},
		{"unknown flag", []string{"--nope"}},
		{"missing config file", []string{"--config", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("test", tt.args)
			assert.Error(t, err)
		})
	}

	t.Run("help", func(t *testing.T) {
		_, err := Load("test", []string{"--help"})
		assert.ErrorIs(t, err, ErrHelp)
	})
}
