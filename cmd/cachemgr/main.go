package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"cachemgr/internal/cache"
	"cachemgr/internal/cache/cachemetrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := cache.DefaultConfig()
	flag.DurationVar(&cfg.DefaultTTL, "ttl", cfg.DefaultTTL, "default entry TTL (<=0 disables expiration)")
	flag.IntVar(&cfg.MaxEntries, "max-entries", 2, "capacity bound (0 = unbounded)")
	flag.DurationVar(&cfg.CleanupInterval, "cleanup", 100*time.Millisecond, "sweeper interval (<=0 disables)")
	flag.DurationVar(&cfg.ShutdownGrace, "grace", cfg.ShutdownGrace, "shutdown grace period for the sweeper")
	workers := flag.Int("workers", 4, "concurrent workers in the load phase")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*level)); err != nil {
		return fmt.Errorf("parse -log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	// Signal-aware context is the root of ownership for long-lived background work.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := cache.New(cfg, cache.WithLogger(logger.With("component", "cache")))
	if err != nil {
		return err
	}
	defer shutdown(c, cfg.ShutdownGrace, logger)

	reg := prometheus.NewRegistry()
	if err := reg.Register(cachemetrics.NewCollector("cachemgr", c)); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	logger.Info("cache demo starting",
		"max_entries", cfg.MaxEntries,
		"cleanup_interval", cfg.CleanupInterval,
		"default_ttl", cfg.DefaultTTL,
	)

	// 1) LRU eviction (capacity=2 by default).
	_ = c.Put("a", "A")
	_ = c.Put("b", "B")
	if v, ok := c.Get("a"); ok {
		logger.Info("get a (touches a)", "value", v)
	}
	_ = c.Put("c", "C")
	if !c.Contains("b") {
		logger.Info("b evicted as least recently used")
	}
	logger.Info("keys after eviction", "keys", c.Keys())

	// 2) TTL expiration via the background sweeper.
	_ = c.PutWithTTL("ttl", "short", 200*time.Millisecond)
	logger.Info("keys after ttl put", "keys", c.Keys())

	wait := time.NewTimer(500 * time.Millisecond)
	defer wait.Stop()
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		return nil
	case <-wait.C:
	}
	logger.Info("keys after ttl + cleanup", "keys", c.Keys())

	// 3) Concurrent load against a larger bound.
	if err := c.SetMaxEntries(100); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for w := range *workers {
		g.Go(func() error {
			for i := range 1000 {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				key := fmt.Sprintf("w%d-%d", w, i%150)
				if _, ok := c.Get(key); !ok {
					if err := c.Put(key, i); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("load phase: %w", err)
	}

	info := c.Info()
	logger.Info("cache info",
		"size", info.Size,
		"max_entries", info.MaxEntries,
		"default_ttl", info.DefaultTTL,
		"hits", info.Hits,
		"misses", info.Misses,
		"hit_rate", fmt.Sprintf("%.3f", info.HitRate),
		"evictions", info.Evictions,
		"expirations", info.Expirations,
	)

	return dumpMetrics(reg, logger)
}

// shutdown stops the cache within grace and logs any failure.
func shutdown(c *cache.Cache, grace time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		logger.Error("cache shutdown", "error", err)
	}
}

func dumpMetrics(reg *prometheus.Registry, logger *slog.Logger) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetGauge().GetValue()
			if m.GetCounter() != nil {
				value = m.GetCounter().GetValue()
			}
			logger.Info("metric", "name", mf.GetName(), "value", value)
		}
	}
	return nil
}
