package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc memoizer.
type Config struct {
	// Capacity defines the maximum number of entries the memoizer can hold.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0.
	NumShards int

	// TTL is how long a memoized record stays in memory. Records are
	// immutable once stored, so expiry only costs an extra store read.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// the memoizer reaches capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are collected.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                10 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// sturdycMemoizer wraps a sturdyc client to memoize immutable records and
// collapse concurrent in-flight lookups for the same key.
type sturdycMemoizer struct {
	client *sturdyc.Client[any]
}

// NewSturdycMemoizer validates the configuration and returns a memoizer
// backed by a sturdyc client. Early refresh is deliberately not configured:
// records never change once stored, so refreshing them buys nothing.
func NewSturdycMemoizer(cfg Config) (*sturdycMemoizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &sturdycMemoizer{client: client}, nil
}

// GetOrFetch implements record.Memoizer. On a memory miss it runs fetchFn and
// stores the result; concurrent callers for the same key share one in-flight
// fetchFn execution. Errors are returned but never memoized.
func (m *sturdycMemoizer) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error) {
	return m.client.GetOrFetch(ctx, key, fetchFn)
}

// Delete removes a single memoized entry. Exposed for operational use; the
// cache itself never needs it because records are immutable.
func (m *sturdycMemoizer) Delete(key string) {
	m.client.Delete(key)
}
