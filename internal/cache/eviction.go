package cache

import "time"

// victim identifies the entry an eviction pass chose. The entry pointer lets
// the caller remove exactly that entry and nothing inserted in its place.
type victim struct {
	key        string
	entry      *entry
	lastAccess time.Time
	seq        uint64
}

// older reports whether a was used less recently than b. Equal access times
// fall back to insertion order.
func (a victim) older(b victim) bool {
	if !a.lastAccess.Equal(b.lastAccess) {
		return a.lastAccess.Before(b.lastAccess)
	}
	return a.seq < b.seq
}

// lruPolicy selects the least recently used entry with a full scan.
//
// The scan is O(n) but only runs when an insert or a capacity change finds the
// store at its limit.
type lruPolicy struct{}

// selectVictim returns the least recently used entry across all shards.
// It reports false when the store is empty.
func (lruPolicy) selectVictim(s *store) (victim, bool) {
	var (
		best  victim
		found bool
	)
	for _, sh := range s.shards {
		sh.mu.RLock()
		for key, e := range sh.items {
			cand := victim{key: key, entry: e, lastAccess: e.lastAccess, seq: e.seq}
			if !found || cand.older(best) {
				best, found = cand, true
			}
		}
		sh.mu.RUnlock()
	}
	return best, found
}
