// Package config loads the settings shared by the coffeeshop commands.
//
// Values are resolved in this order, highest first: command-line flags,
// COFFEESHOP_* environment variables, the optional config file named by
// --config, and built-in defaults. Nested keys map to environment variables
// by replacing "." and "-" with "_", e.g. generator.window-days becomes
// COFFEESHOP_GENERATOR_WINDOW_DAYS.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mmynk/coffeeshop/internal/charts"
	"github.com/mmynk/coffeeshop/internal/generator"
)

const envPrefix = "COFFEESHOP"

// Config is the full configuration of every command.
type Config struct {
	DBPath      string           `mapstructure:"db-path"`
	OutputDir   string           `mapstructure:"output-dir"`
	LogLevel    string           `mapstructure:"log-level"`
	MetricsFile string           `mapstructure:"metrics-file"`
	Generator   generator.Config `mapstructure:"generator"`
	Server      ServerConfig     `mapstructure:"server"`
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	RateLimitRPS    float64       `mapstructure:"rate-limit-rps"`
	RateLimitBurst  int           `mapstructure:"rate-limit-burst"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:    "./data/coffee_shop.db",
		OutputDir: charts.DefaultDir,
		LogLevel:  "info",
		Generator: generator.DefaultConfig(),
		Server: ServerConfig{
			Address:         ":8080",
			RateLimitRPS:    20,
			RateLimitBurst:  40,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// flag name -> config key
var flagKeys = map[string]string{
	"db-path":           "db-path",
	"output-dir":        "output-dir",
	"log-level":         "log-level",
	"metrics-file":      "metrics-file",
	"transactions":      "generator.transactions",
	"window-days":       "generator.window-days",
	"customers":         "generator.customers",
	"guest-probability": "generator.guest-probability",
	"seed":              "generator.seed",
	"addr":              "server.address",
	"rate-limit-rps":    "server.rate-limit-rps",
	"rate-limit-burst":  "server.rate-limit-burst",
	"shutdown-timeout":  "server.shutdown-timeout",
}

// ErrHelp is returned by Load when -h or --help was given.
var ErrHelp = pflag.ErrHelp

// Load parses args for the named command and resolves the configuration.
func Load(command string, args []string) (*Config, error) {
	def := Default()

	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	configFile := fs.String("config", "", "path to a config file (json, yaml or toml)")
	fs.String("db-path", def.DBPath, "SQLite database file")
	fs.String("output-dir", def.OutputDir, "directory for exported charts")
	fs.String("log-level", def.LogLevel, "log level: debug, info, warn, error")
	fs.String("metrics-file", def.MetricsFile, "write generator metrics to this Prometheus textfile")
	fs.Int("transactions", def.Generator.Transactions, "number of transactions to generate")
	fs.Int("window-days", def.Generator.WindowDays, "length of the historical window in days")
	fs.Int("customers", def.Generator.Customers, "size of the registered customer pool")
	fs.Float64("guest-probability", def.Generator.GuestProbability, "probability that a sale has no customer")
	fs.Uint64("seed", def.Generator.Seed, "random seed (0 picks one)")
	fs.String("addr", def.Server.Address, "dashboard listen address")
	fs.Float64("rate-limit-rps", def.Server.RateLimitRPS, "requests per second per client (0 disables)")
	fs.Int("rate-limit-burst", def.Server.RateLimitBurst, "rate limit burst size")
	fs.Duration("shutdown-timeout", def.Server.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	setDefaults(v, def)

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	// Weight tables from a config file replace the defaults instead of merging into them.
	cfg := def
	cfg.Generator.HourWeights = nil
	cfg.Generator.BasketWeights = nil
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if cfg.Generator.HourWeights == nil {
		cfg.Generator.HourWeights = def.Generator.HourWeights
	}
	if cfg.Generator.BasketWeights == nil {
		cfg.Generator.BasketWeights = def.Generator.BasketWeights
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("db-path", def.DBPath)
	v.SetDefault("output-dir", def.OutputDir)
	v.SetDefault("log-level", def.LogLevel)
	v.SetDefault("metrics-file", def.MetricsFile)
	v.SetDefault("generator.transactions", def.Generator.Transactions)
	v.SetDefault("generator.window-days", def.Generator.WindowDays)
	v.SetDefault("generator.customers", def.Generator.Customers)
	v.SetDefault("generator.guest-probability", def.Generator.GuestProbability)
	v.SetDefault("generator.seed", def.Generator.Seed)
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("server.rate-limit-rps", def.Server.RateLimitRPS)
	v.SetDefault("server.rate-limit-burst", def.Server.RateLimitBurst)
	v.SetDefault("server.shutdown-timeout", def.Server.ShutdownTimeout)
}

// Validate checks the values every command relies on.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db-path must not be empty")
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("invalid generator config: %w", err)
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rate-limit-burst must be at least 1, got %d", c.Server.RateLimitBurst)
	}
	return nil
}
