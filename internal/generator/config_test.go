package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 2000, cfg.Transactions)
	assert.Equal(t, 90, cfg.WindowDays)
	assert.Equal(t, 150, cfg.Customers)
	assert.Equal(t, 0.3, cfg.GuestProbability)
	assert.Len(t, cfg.HourWeights, 13)
	assert.Len(t, cfg.BasketWeights, 5)

	// Defaults are copies; mutating one config must not leak into the next.
	cfg.HourWeights[7] = 100
	assert.Equal(t, 0.15, DefaultConfig().HourWeights[7])
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative transactions", func(c *Config) { c.Transactions = -1 }},
		{"zero window", func(c *Config) { c.WindowDays = 0 }},
		{"negative customers", func(c *Config) { c.Customers = -5 }},
		{"guest probability above one", func(c *Config) { c.GuestProbability = 1.5 }},
		{"guest probability below zero", func(c *Config) { c.GuestProbability = -0.1 }},
		{"hour out of range", func(c *Config) { c.HourWeights = map[int]float64{24: 1} }},
		{"empty hour weights", func(c *Config) { c.HourWeights = nil }},
		{"zero basket size", func(c *Config) { c.BasketWeights = map[int]float64{0: 1} }},
		{"zero basket weights", func(c *Config) { c.BasketWeights = map[int]float64{1: 0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("zero transactions is valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Transactions = 0
		assert.NoError(t, cfg.Validate())
	})
}
