package main

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cachemgr/internal/cache"
	"cachemgr/internal/cache/cachemetrics"
)

func TestShutdown_ClosesCacheWithoutErrorLog(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	c, err := cache.New(cache.Config{CleanupInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, c.Put("k", "v"))

	shutdown(c, time.Second, logger)

	assert.True(t, c.Info().Closed)
	assert.True(t, c.IsEmpty())
	assert.NotContains(t, logs.String(), "level=ERROR")

	// A second shutdown is a no-op.
	shutdown(c, time.Second, logger)
	assert.NotContains(t, logs.String(), "level=ERROR")
}

func TestDumpMetrics_LogsEveryFamily(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	c, err := cache.New(cache.Config{StatisticsEnabled: true})
	require.NoError(t, err)
	defer c.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(cachemetrics.NewCollector("demo", c)))

	require.NoError(t, dumpMetrics(reg, logger))
	assert.Contains(t, logs.String(), "name=demo_entries")
	assert.Contains(t, logs.String(), "name=demo_hits")
}
