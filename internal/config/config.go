// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              string
	DatabaseURL       string // empty: in-memory stores seeded from InventoryPath
	InventoryPath     string
	RedisURL          string // empty: in-process inventory cache
	InventoryCacheTTL time.Duration
	LogLevel          string
	ErrorSampleRate   int
	RequestTimeout    time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	if out < 0 {
		return def, fmt.Errorf("%s: must not be negative", key)
	}
	return out, nil
}

// Load reads the configuration. Malformed numeric or duration values are
// reported; missing ones fall back to defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		InventoryPath: getenv("INVENTORY_PATH", "data/cars.json"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LogLevel:      getenv("LOG_LEVEL", "INFO"),
	}

	var err error
	if cfg.InventoryCacheTTL, err = getenvDuration("INVENTORY_CACHE_TTL", 5*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.RequestTimeout, err = getenvDuration("REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return cfg, err
	}
	if cfg.ErrorSampleRate, err = getenvInt("ERROR_SAMPLE_RATE", 1); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// UsesDatabase reports whether stores should be backed by PostgreSQL.
func (c Config) UsesDatabase() bool { return c.DatabaseURL != "" }

// UsesRedis reports whether the inventory cache should be backed by Redis.
func (c Config) UsesRedis() bool { return c.RedisURL != "" }
