package cache

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a concurrency-safe in-memory key–value cache with TTL and LRU eviction.
//
// A Cache is an explicit handle: construct one with New, pass it to whoever
// needs it, and call Shutdown when done. There is no package-level instance.
//
// After Shutdown the cache is empty and stays empty: mutating calls return
// ErrClosed, Get and Contains report misses, Remove reports false.
type Cache struct {
	store  *store
	stats  statsCollector
	policy lruPolicy
	clock  Clock
	logger *slog.Logger

	// admitMu serializes new-key admission and capacity changes so that
	// the check-evict-insert sequence cannot overshoot maxEntries.
	admitMu    sync.Mutex
	maxEntries atomic.Int64
	defaultTTL atomic.Int64

	cleanupEvery time.Duration
	grace        time.Duration

	// Goroutine ownership.
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	closed atomic.Bool
}

// Info is the full configuration of a cache together with its statistics.
type Info struct {
	Stats
	MaxEntries        int
	DefaultTTL        time.Duration
	CleanupInterval   time.Duration
	StatisticsEnabled bool
	Closed            bool
}

// New validates cfg, constructs a cache and starts background cleanup if enabled.
func New(cfg Config, opts ...Option) (*Cache, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		store:        newStore(cfg.Shards),
		clock:        systemClock{},
		logger:       slog.New(slog.DiscardHandler),
		cleanupEvery: cfg.CleanupInterval,
		grace:        cfg.ShutdownGrace,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.grace == 0 {
		c.grace = defaultShutdownGrace
	}
	c.maxEntries.Store(int64(max(cfg.MaxEntries, 0)))
	c.defaultTTL.Store(int64(cfg.DefaultTTL))
	c.stats.enabled.Store(cfg.StatisticsEnabled)

	if c.cleanupEvery > 0 {
		c.done = make(chan struct{})
		go c.expiryLoop(c.cleanupEvery)
	}

	c.logger.Debug("cache started",
		"max_entries", cfg.MaxEntries,
		"default_ttl", cfg.DefaultTTL,
		"cleanup_interval", cfg.CleanupInterval,
		"shards", len(c.store.shards),
	)
	return c, nil
}

// Put stores value under key using the current default TTL.
func (c *Cache) Put(key string, value any) error {
	return c.PutWithTTL(key, value, time.Duration(c.defaultTTL.Load()))
}

// PutWithTTL inserts or replaces the entry for key.
//
// ttl <= 0 means "no expiration". Replacing an existing key never triggers
// eviction; inserting a new key into a full cache evicts the least recently
// used entry first.
func (c *Cache) PutWithTTL(key string, value any, ttl time.Duration) error {
	if key == "" {
		return invalidArgument("put: key must not be empty")
	}
	if isNil(value) {
		return invalidArgument("put %q: value must not be nil", key)
	}
	if c.closed.Load() {
		return ErrClosed
	}

	if c.store.replace(key, value, ttl, c.clock.Now()) {
		return nil
	}

	c.admitMu.Lock()
	defer c.admitMu.Unlock()

	// Shutdown clears the store under admitMu; re-check so nothing lands afterwards.
	if c.closed.Load() {
		return ErrClosed
	}

	// A concurrent Put may have admitted the same key while we waited.
	now := c.clock.Now()
	if c.store.replace(key, value, ttl, now) {
		return nil
	}
	if limit := int(c.maxEntries.Load()); limit > 0 {
		c.shrinkLocked(limit-1, now)
	}
	c.store.set(key, value, ttl, now)
	return nil
}

// isNil reports whether v is nil or a typed nil pointer, map, slice, channel,
// function or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Get returns the value stored under key.
//
// It performs lazy TTL expiration: an expired key is removed and reported as
// a miss. A hit refreshes the entry's recency.
func (c *Cache) Get(key string) (any, bool) {
	if c.closed.Load() {
		return nil, false
	}

	value, res := c.store.get(key, c.clock.Now())
	switch res {
	case lookupHit:
		c.stats.recordHit()
		return value, true
	case lookupExpired:
		c.stats.recordExpirations(1)
	}
	c.stats.recordMiss()
	return nil, false
}

// Contains reports whether key holds a live entry. It does not count toward
// statistics and does not refresh recency, but it does purge an expired entry.
func (c *Cache) Contains(key string) bool {
	_, ok := c.Peek(key)
	return ok
}

// Peek returns the metadata of a live entry with the same semantics as Contains.
func (c *Cache) Peek(key string) (EntryInfo, bool) {
	if c.closed.Load() {
		return EntryInfo{}, false
	}

	info, res := c.store.peek(key, c.clock.Now())
	if res == lookupExpired {
		c.stats.recordExpirations(1)
	}
	return info, res == lookupHit
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	if c.closed.Load() {
		return false
	}
	return c.store.delete(key)
}

// Clear removes every entry and resets statistics.
func (c *Cache) Clear() {
	n := c.store.clear()
	c.stats.reset()
	c.logger.Debug("cache cleared", "removed", n)
}

// Len returns the number of stored entries.
//
// Len includes entries that have expired but haven't been cleaned up yet.
func (c *Cache) Len() int {
	return c.store.len()
}

// IsEmpty reports whether Len is zero.
func (c *Cache) IsEmpty() bool {
	return c.store.len() == 0
}

// Keys returns the stored keys in ascending order.
func (c *Cache) Keys() []string {
	return c.store.keys()
}

// Stats returns the current size and counters.
func (c *Cache) Stats() Stats {
	return c.stats.snapshot(c.store.len())
}

// Info returns the configuration and statistics of the cache.
func (c *Cache) Info() Info {
	return Info{
		Stats:             c.Stats(),
		MaxEntries:        int(c.maxEntries.Load()),
		DefaultTTL:        time.Duration(c.defaultTTL.Load()),
		CleanupInterval:   c.cleanupEvery,
		StatisticsEnabled: c.stats.enabled.Load(),
		Closed:            c.closed.Load(),
	}
}

// SetDefaultTTL changes the TTL used by subsequent Put calls. Entries already
// stored keep their expiration time. ttl <= 0 means "no expiration".
func (c *Cache) SetDefaultTTL(ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.defaultTTL.Store(int64(ttl))
	return nil
}

// SetMaxEntries changes the capacity bound. n == 0 removes the bound.
// If the cache holds more than n entries, it evicts until it fits.
func (c *Cache) SetMaxEntries(n int) error {
	if n < 0 {
		return invalidConfig("max entries must not be negative: %d", n)
	}

	c.admitMu.Lock()
	defer c.admitMu.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}

	c.maxEntries.Store(int64(n))
	if n > 0 {
		c.shrinkLocked(n, c.clock.Now())
	}
	return nil
}

// SetStatisticsEnabled switches statistics collection. Disabling it resets
// every counter.
func (c *Cache) SetStatisticsEnabled(on bool) {
	c.stats.setEnabled(on)
}

// ForceCleanup synchronously removes every expired entry and returns how
// many were removed.
func (c *Cache) ForceCleanup() int {
	if c.closed.Load() {
		return 0
	}
	return c.sweep()
}

// Close is Shutdown with a background context.
//
// Close is safe to call multiple times.
func (c *Cache) Close() error {
	return c.Shutdown(context.Background())
}

// Shutdown stops background cleanup and empties the cache.
//
// It waits for the sweeper to stop for at most the configured grace period,
// or until ctx is done. A sweeper that does not stop in time is abandoned and
// the timeout is logged; Shutdown itself always returns nil. Calling it again
// leaves the cache empty and does nothing else.
func (c *Cache) Shutdown(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		c.store.clear()
		return nil
	}

	// Cancel outside admitMu so a blocked sweeper cannot stall admission.
	c.cancel()
	if c.done != nil {
		c.awaitSweeper(ctx)
	}

	c.admitMu.Lock()
	n := c.store.clear()
	c.stats.reset()
	c.admitMu.Unlock()

	c.logger.Info("cache shut down", "removed", n)
	return nil
}

func (c *Cache) awaitSweeper(ctx context.Context) {
	grace := time.NewTimer(c.grace)
	defer grace.Stop()

	select {
	case <-c.done:
	case <-grace.C:
		c.logger.Warn("abandoning expiration sweeper",
			"error", ErrShutdownTimeout,
			"grace", c.grace,
		)
	case <-ctx.Done():
		c.logger.Warn("abandoning expiration sweeper",
			"error", ErrShutdownTimeout,
			"cause", ctx.Err(),
		)
	}
}

// shrinkLocked evicts entries until at most target remain. Expired entries
// are reclaimed before any live entry is chosen. Callers hold admitMu.
func (c *Cache) shrinkLocked(target int, now time.Time) {
	if c.store.len() <= target {
		return
	}

	c.stats.recordExpirations(c.store.sweep(now))

	for c.store.len() > target {
		v, ok := c.policy.selectVictim(c.store)
		if !ok {
			return
		}
		if c.store.deleteIf(v.key, v.entry) {
			c.stats.recordEviction()
			c.logger.Debug("evicted least recently used entry",
				"key", v.key,
				"last_access", v.lastAccess,
			)
		}
	}
}
