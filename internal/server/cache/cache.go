// Package cache keeps computed reconciliation results for a limited time so
// the dashboard can serve them again for download.
// It uses patrickmn/go-cache for TTL-based expiry.
package cache

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/luga/pkg/reconcile"
	"github.com/agentstation/luga/pkg/stock"
)

// Entry is one stored reconciliation. Entries are never modified after Put.
type Entry struct {
	ID        string
	CreatedAt time.Time
	TotalName string
	RobotName string
	Total     stock.Totals
	Robot     stock.Totals
	Summary   reconcile.Summary
	Result    *reconcile.Result
}

// Cache stores entries by id with a default TTL.
type Cache struct {
	store *gocache.Cache
	now   func() time.Time
}

// New creates a new cache with the given TTL and cleanup interval.
// defaultTTL is the default expiration time for entries.
// cleanupInterval is how often expired entries are removed from memory.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
		now:   time.Now,
	}
}

// Put stores e under a fresh id and returns the stored entry. Each call creates a
// new entry, even for identical inputs.
func (c *Cache) Put(e Entry) *Entry {
	e.ID = uuid.NewString()
	e.CreatedAt = c.now().UTC()
	stored := &e
	c.store.Set(e.ID, stored, gocache.DefaultExpiration)
	return stored
}

// Get retrieves an entry by id.
func (c *Cache) Get(id string) (*Entry, bool) {
	v, ok := c.store.Get(id)
	if !ok {
		return nil, false
	}
	e, ok := v.(*Entry)
	return e, ok
}

// Delete removes an entry.
func (c *Cache) Delete(id string) {
	c.store.Delete(id)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, including expired ones not yet
// cleaned up.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
	}
}
