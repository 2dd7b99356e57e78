package cache

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

const defaultShards = 16

// shard is one partition of the entry store.
type shard struct {
	mu    sync.RWMutex
	items map[string]*entry
}

// store is a concurrency-safe key -> entry map split into shards.
//
// Every mutation of a shard map happens under that shard's write lock and
// adjusts count in the same critical section, so len is O(1) and never torn.
type store struct {
	shards []*shard
	seq    atomic.Uint64
	count  atomic.Int64
}

func newStore(n int) *store {
	if n <= 0 {
		n = defaultShards
	}
	s := &store{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{items: make(map[string]*entry)}
	}
	return s
}

func (s *store) shardFor(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

// set inserts or replaces the entry for key and reports whether the key was new.
func (s *store) set(key string, value any, ttl time.Duration, now time.Time) bool {
	e := newEntry(key, value, ttl, now, s.seq.Add(1))

	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	_, existed := sh.items[key]
	sh.items[key] = e
	if !existed {
		s.count.Add(1)
	}
	return !existed
}

// replace overwrites key only if it is already present.
func (s *store) replace(key string, value any, ttl time.Duration, now time.Time) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.items[key]; !ok {
		return false
	}
	sh.items[key] = newEntry(key, value, ttl, now, s.seq.Add(1))
	return true
}

// lookup is the outcome of a read against the store.
type lookup int

const (
	lookupMiss lookup = iota
	lookupHit
	lookupExpired
)

// get returns the live value for key and records the access on the entry.
// An expired entry is removed and reported as lookupExpired.
func (s *store) get(key string, now time.Time) (any, lookup) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[key]
	if !ok {
		return nil, lookupMiss
	}
	if e.expired(now) {
		delete(sh.items, key)
		s.count.Add(-1)
		return nil, lookupExpired
	}
	e.touch(now)
	return e.value, lookupHit
}

// peek reports the metadata of a live entry without recording an access.
// An expired entry is removed, as in get.
func (s *store) peek(key string, now time.Time) (EntryInfo, lookup) {
	sh := s.shardFor(key)

	sh.mu.RLock()
	e, ok := sh.items[key]
	if !ok {
		sh.mu.RUnlock()
		return EntryInfo{}, lookupMiss
	}
	if !e.expired(now) {
		info := e.info()
		sh.mu.RUnlock()
		return info, lookupHit
	}
	sh.mu.RUnlock()

	// Only drop the entry we saw; it may have been replaced between locks.
	if s.deleteIf(key, e) {
		return EntryInfo{}, lookupExpired
	}
	return EntryInfo{}, lookupMiss
}

func (s *store) delete(key string) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.items[key]; !ok {
		return false
	}
	delete(sh.items, key)
	s.count.Add(-1)
	return true
}

// deleteIf removes key only while it still maps to e.
func (s *store) deleteIf(key string, e *entry) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if cur, ok := sh.items[key]; !ok || cur != e {
		return false
	}
	delete(sh.items, key)
	s.count.Add(-1)
	return true
}

// sweep removes every entry expired at now and returns how many were removed.
//
// Expiry is decided under each shard's write lock, so entries inserted after a
// shard was visited are left for the next sweep.
func (s *store) sweep(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		n := 0
		sh.mu.Lock()
		for key, e := range sh.items {
			if e.expired(now) {
				delete(sh.items, key)
				n++
			}
		}
		s.count.Add(-int64(n))
		sh.mu.Unlock()
		removed += n
	}
	return removed
}

func (s *store) clear() int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n := len(sh.items)
		sh.items = make(map[string]*entry)
		s.count.Add(-int64(n))
		sh.mu.Unlock()
		removed += n
	}
	return removed
}

func (s *store) len() int {
	return int(s.count.Load())
}

// keys returns the stored keys in ascending order, including expired entries
// that have not been reclaimed yet.
func (s *store) keys() []string {
	out := make([]string, 0, s.len())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for key := range sh.items {
			out = append(out, key)
		}
		sh.mu.RUnlock()
	}
	slices.Sort(out)
	return out
}
