package cache

import (
	"log/slog"
	"time"
)

const (
	defaultShutdownGrace = 5 * time.Second
)

// Config controls cache capacity, expiration and maintenance behavior.
//
// Zero values follow the same conventions as the setters:
//   - DefaultTTL <= 0 means entries stored with Put never expire
//   - MaxEntries <= 0 means "unbounded" (no LRU eviction)
//   - CleanupInterval <= 0 disables background cleanup (lazy expiration still works)
//   - ShutdownGrace == 0 uses a 5s grace period
//   - Shards == 0 uses 16 shards
type Config struct {
	DefaultTTL        time.Duration
	MaxEntries        int
	CleanupInterval   time.Duration
	StatisticsEnabled bool
	ShutdownGrace     time.Duration
	Shards            int
}

// DefaultConfig returns the configuration used by the demo binary.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:        time.Hour,
		MaxEntries:        1000,
		CleanupInterval:   30 * time.Second,
		StatisticsEnabled: true,
		ShutdownGrace:     defaultShutdownGrace,
		Shards:            defaultShards,
	}
}

func (cfg Config) validate() error {
	if cfg.Shards < 0 {
		return invalidConfig("shards must not be negative: %d", cfg.Shards)
	}
	if cfg.ShutdownGrace < 0 {
		return invalidConfig("shutdown grace must not be negative: %s", cfg.ShutdownGrace)
	}
	return nil
}

// Option customizes collaborators of a Cache.
type Option func(*Cache)

// WithClock replaces the system clock, typically with a fake in tests.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger for maintenance and lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}
