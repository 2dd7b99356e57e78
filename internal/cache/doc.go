// Package cache implements a single-process, in-memory key–value cache manager.
//
// The cache stores arbitrary values under string keys with:
//   - per-entry TTL, checked lazily on access and swept periodically in the background
//   - a capacity bound enforced by least-recently-used eviction
//   - hit/miss/eviction/expiration statistics that can be switched off at runtime
//
// Entries live in a sharded map; each shard has its own RWMutex so operations on
// unrelated keys rarely contend. New-key inserts additionally pass through an admission
// lock so that the check-evict-insert sequence is atomic with respect to capacity.
//
// Ownership model:
// A Cache owns its sweeper goroutine. Whoever constructs the Cache calls Shutdown
// (or Close) once it is no longer needed.
package cache
