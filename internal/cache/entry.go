package cache

import "time"

// entry is the value stored in a shard map.
//
// expiresAt is the zero time when the entry never expires. lastAccess and
// accessCount are only mutated under the owning shard's write lock.
type entry struct {
	key         string
	value       any
	createdAt   time.Time
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount uint64
	seq         uint64
}

func newEntry(key string, value any, ttl time.Duration, now time.Time, seq uint64) *entry {
	e := &entry{
		key:        key,
		value:      value,
		createdAt:  now,
		lastAccess: now,
		seq:        seq,
	}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	return e
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

func (e *entry) touch(now time.Time) {
	e.lastAccess = now
	e.accessCount++
}

// EntryInfo is a read-only view of an entry's metadata.
type EntryInfo struct {
	Key         string
	CreatedAt   time.Time
	ExpiresAt   time.Time // zero when the entry never expires
	LastAccess  time.Time
	AccessCount uint64
}

func (e *entry) info() EntryInfo {
	return EntryInfo{
		Key:         e.key,
		CreatedAt:   e.createdAt,
		ExpiresAt:   e.expiresAt,
		LastAccess:  e.lastAccess,
		AccessCount: e.accessCount,
	}
}
