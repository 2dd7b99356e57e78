package cache

import "sync/atomic"

// Stats is a point-in-time view of cache effectiveness.
//
// Counters are updated independently, so Hits and Misses taken from the same
// snapshot may be off by in-flight lookups under concurrent access.
type Stats struct {
	Size        int
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	HitRate     float64
}

// statsCollector holds the atomic counters behind Stats.
type statsCollector struct {
	enabled     atomic.Bool
	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	expirations atomic.Uint64
}

func (s *statsCollector) recordHit() {
	if s.enabled.Load() {
		s.hits.Add(1)
	}
}

func (s *statsCollector) recordMiss() {
	if s.enabled.Load() {
		s.misses.Add(1)
	}
}

func (s *statsCollector) recordEviction() {
	if s.enabled.Load() {
		s.evictions.Add(1)
	}
}

func (s *statsCollector) recordExpirations(n int) {
	if n > 0 && s.enabled.Load() {
		s.expirations.Add(uint64(n))
	}
}

// setEnabled toggles collection. Disabling resets every counter.
func (s *statsCollector) setEnabled(on bool) {
	s.enabled.Store(on)
	if !on {
		s.reset()
	}
}

func (s *statsCollector) reset() {
	s.hits.Store(0)
	s.misses.Store(0)
	s.evictions.Store(0)
	s.expirations.Store(0)
}

func (s *statsCollector) snapshot(size int) Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()
	return Stats{
		Size:        size,
		Hits:        hits,
		Misses:      misses,
		Evictions:   s.evictions.Load(),
		Expirations: s.expirations.Load(),
		HitRate:     hitRate(hits, misses),
	}
}

// hitRate is hits/(hits+misses), or 0 when there were no lookups.
func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
