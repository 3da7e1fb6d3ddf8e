package inventorytest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

type cacheEntry struct {
	day     string
	gen     int64
	metrics domain.DashboardMetrics
}

// Cache is an in-memory domain.MetricsCache that counts its calls
type Cache struct {
	mu            sync.Mutex
	entries       map[uuid.UUID]cacheEntry
	gens          map[uuid.UUID]int64
	Hits          int
	Misses        int
	Stores        int
	Rejected      int
	Invalidations int
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[uuid.UUID]cacheEntry),
		gens:    make(map[uuid.UUID]int64),
	}
}

func (c *Cache) Get(ctx context.Context, ownerID uuid.UUID, day string) (*domain.DashboardMetrics, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[ownerID]
	entry, ok := c.entries[ownerID]
	if !ok || entry.day != day || entry.gen != gen {
		c.Misses++
		return nil, gen, nil
	}
	c.Hits++
	m := entry.metrics
	return &m, gen, nil
}

func (c *Cache) Set(ctx context.Context, ownerID uuid.UUID, day string, gen int64, metrics domain.DashboardMetrics) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[ownerID] != gen {
		c.Rejected++
		return false, nil
	}
	c.Stores++
	c.entries[ownerID] = cacheEntry{day: day, gen: gen, metrics: metrics}
	return true, nil
}

func (c *Cache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations++
	c.gens[ownerID]++
	delete(c.entries, ownerID)
	return nil
}
