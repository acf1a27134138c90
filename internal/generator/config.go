package generator

import (
	"fmt"
	"maps"
)

// Config holds the generation parameters.
type Config struct {
	// Transactions is the number of transactions to generate (T).
	Transactions int `mapstructure:"transactions"`

	// WindowDays is the length of the historical window in days (W).
	// The window ends at the generation time.
	WindowDays int `mapstructure:"window-days"`

	// Customers is the size of the registered customer pool (N).
	// With zero customers every transaction is a guest sale.
	Customers int `mapstructure:"customers"`

	// HourWeights maps an hour of day to its relative likelihood.
	HourWeights map[int]float64 `mapstructure:"hour-weights"`

	// BasketWeights maps a basket size (number of lines) to its relative likelihood.
	BasketWeights map[int]float64 `mapstructure:"basket-weights"`

	// GuestProbability is the probability that a transaction has no customer.
	GuestProbability float64 `mapstructure:"guest-probability"`

	// Seed seeds the random source. Zero picks a random seed, which is
	// recorded in the generation run.
	Seed uint64 `mapstructure:"seed"`
}

// Morning rush 7-10, lunch 12-2, quiet afternoon, small evening bump.
var defaultHourWeights = map[int]float64{
	7: 0.15, 8: 0.2, 9: 0.15, 10: 0.05, 11: 0.05,
	12: 0.1, 13: 0.1, 14: 0.05, 15: 0.05,
	16: 0.02, 17: 0.02, 18: 0.03, 19: 0.03,
}

var defaultBasketWeights = map[int]float64{
	1: 0.5, 2: 0.3, 3: 0.1, 4: 0.05, 5: 0.05,
}

// DefaultConfig returns the documented defaults: 2000 transactions over the
// last 90 days, 150 customers, 30% guest sales.
func DefaultConfig() Config {
	return Config{
		Transactions:     2000,
		WindowDays:       90,
		Customers:        150,
		HourWeights:      maps.Clone(defaultHourWeights),
		BasketWeights:    maps.Clone(defaultBasketWeights),
		GuestProbability: 0.3,
	}
}

// Validate checks the configuration before any data is touched.
func (c Config) Validate() error {
	if c.Transactions < 0 {
		return fmt.Errorf("transactions must not be negative, got %d", c.Transactions)
	}
	if c.WindowDays < 1 {
		return fmt.Errorf("window days must be at least 1, got %d", c.WindowDays)
	}
	if c.Customers < 0 {
		return fmt.Errorf("customers must not be negative, got %d", c.Customers)
	}
	if c.GuestProbability < 0 || c.GuestProbability > 1 {
		return fmt.Errorf("guest probability must be within [0, 1], got %v", c.GuestProbability)
	}
	for hour := range c.HourWeights {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("hour weight key must be within 0..23, got %d", hour)
		}
	}
	if _, err := NewWeighted(c.HourWeights); err != nil {
		return fmt.Errorf("invalid hour weights: %w", err)
	}
	for size := range c.BasketWeights {
		if size < 1 {
			return fmt.Errorf("basket size must be at least 1, got %d", size)
		}
	}
	if _, err := NewWeighted(c.BasketWeights); err != nil {
		return fmt.Errorf("invalid basket weights: %w", err)
	}
	return nil
}
