// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	LogLevel string

	MetricsEnabled bool
	MetricsToken   string

	// RateLimitRPS of 0 turns the limiter off.
	RateLimitRPS   float64
	RateLimitBurst int

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_TOKEN", "")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("READ_HEADER_TIMEOUT", 5*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// Load reads configuration from environment variables on top of defaults.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port:         v.GetString("PORT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		MetricsToken: v.GetString("METRICS_TOKEN"),
	}

	// viper's Get* helpers turn unparsable values into zero values, which
	// would quietly disable the limiter or metrics. Parse strictly instead.
	var err error
	if cfg.MetricsEnabled, err = cast.ToBoolE(v.Get("METRICS_ENABLED")); err != nil {
		return Config{}, fmt.Errorf("config: METRICS_ENABLED: %w", err)
	}
	if cfg.RateLimitRPS, err = cast.ToFloat64E(v.Get("RATE_LIMIT_RPS")); err != nil {
		return Config{}, fmt.Errorf("config: RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = cast.ToIntE(v.Get("RATE_LIMIT_BURST")); err != nil {
		return Config{}, fmt.Errorf("config: RATE_LIMIT_BURST: %w", err)
	}
	if cfg.ReadHeaderTimeout, err = cast.ToDurationE(v.Get("READ_HEADER_TIMEOUT")); err != nil {
		return Config{}, fmt.Errorf("config: READ_HEADER_TIMEOUT: %w", err)
	}
	if cfg.ShutdownTimeout, err = cast.ToDurationE(v.Get("SHUTDOWN_TIMEOUT")); err != nil {
		return Config{}, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if c.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return errors.New("RATE_LIMIT_BURST must be positive when rate limiting is on")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
