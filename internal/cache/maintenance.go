package cache

import "time"

// expiryLoop periodically removes expired entries until the cache is shut down.
//
// Entries written once and never read again are only reclaimed here; lazy
// expiration on access never sees them.
func (c *Cache) expiryLoop(every time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep runs one expiration pass against the clock's current time.
func (c *Cache) sweep() int {
	n := c.store.sweep(c.clock.Now())
	c.stats.recordExpirations(n)
	if n > 0 {
		c.logger.Debug("expired entries swept", "removed", n, "size", c.store.len())
	}
	return n
}
