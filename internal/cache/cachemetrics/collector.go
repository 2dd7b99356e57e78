// Package cachemetrics exports cache statistics as Prometheus metrics.
package cachemetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"cachemgr/internal/cache"
)

// Source is anything that can report cache info; *cache.Cache satisfies it.
type Source interface {
	Info() cache.Info
}

// Collector reads a fresh Info snapshot on every scrape.
//
// Hit, miss, eviction and expiration counts drop to zero on Cache.Clear and
// when statistics are disabled, so they are exported as gauges.
type Collector struct {
	src Source

	size        *prometheus.Desc
	maxEntries  *prometheus.Desc
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	hitRate     *prometheus.Desc
	statsOn     *prometheus.Desc
}

// NewCollector creates a collector whose metric names are prefixed with namespace.
func NewCollector(namespace string, src Source) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		src:         src,
		size:        desc("entries", "Number of entries currently stored."),
		maxEntries:  desc("max_entries", "Configured capacity bound, 0 when unbounded."),
		hits:        desc("hits", "Lookups that found a live entry since the last reset."),
		misses:      desc("misses", "Lookups that found no live entry since the last reset."),
		evictions:   desc("evictions", "Live entries evicted for capacity since the last reset."),
		expirations: desc("expirations", "Expired entries removed since the last reset."),
		hitRate:     desc("hit_rate", "Fraction of lookups that were hits."),
		statsOn:     desc("statistics_enabled", "1 when statistics collection is enabled."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.maxEntries
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.hitRate
	ch <- c.statsOn
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	info := c.src.Info()

	statsOn := 0.0
	if info.StatisticsEnabled {
		statsOn = 1
	}

	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(info.Size))
	ch <- prometheus.MustNewConstMetric(c.maxEntries, prometheus.GaugeValue, float64(info.MaxEntries))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.GaugeValue, float64(info.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.GaugeValue, float64(info.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.GaugeValue, float64(info.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.GaugeValue, float64(info.Expirations))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, info.HitRate)
	ch <- prometheus.MustNewConstMetric(c.statsOn, prometheus.GaugeValue, statsOn)
}
