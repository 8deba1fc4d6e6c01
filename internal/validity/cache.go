package validity

import (
	"sync"
	"time"

	"github.com/CyrilRPG/diploma/internal/core"
)

// Cache is the in-memory record of currently-accepted credentials. Each
// record expires a fixed window after acceptance, independent of the
// credential's own exp claim.
type Cache struct {
	mu      sync.RWMutex
	window  time.Duration
	records map[string]core.ValidityRecord
}

func NewCache(window time.Duration) *Cache {
	return &Cache{
		window:  window,
		records: make(map[string]core.ValidityRecord),
	}
}

// Accept inserts or overwrites the record for a credential, expiring at
// now plus the cache window.
func (c *Cache) Accept(credential, identity string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[credential] = core.ValidityRecord{
		Identity:  identity,
		ExpiresAt: now.Add(c.window),
	}
}

// Lookup returns the record for a credential, if any.
func (c *Cache) Lookup(credential string) (core.ValidityRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.records[credential]
	return rec, ok
}

// Delete removes the record for a credential.
func (c *Cache) Delete(credential string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, credential)
}

// Sweep removes every record that expired before now and returns the
// affected credentials. Removal happens atomically under the cache lock,
// so a concurrent re-validation either misses the record entirely or the
// caller's follow-up revocation lands after it and wins.
func (c *Cache) Sweep(now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired []string
	for credential, rec := range c.records {
		if rec.ExpiresAt.Before(now) {
			expired = append(expired, credential)
			delete(c.records, credential)
		}
	}
	return expired
}

// Len returns the number of live records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
