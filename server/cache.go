package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// statsCache memoizes statistics responses per user. Writes for a user
// bump its generation, which orphans every key built before the write.
type statsCache struct {
	c   *ristretto.Cache
	ttl time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func newStatsCache(maxCost int64, ttl time.Duration) (*statsCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &statsCache{c: c, ttl: ttl, gens: make(map[string]uint64)}, nil
}

func (c *statsCache) key(userID, view, query string) string {
	c.mu.Lock()
	gen := c.gens[userID]
	c.mu.Unlock()
	return fmt.Sprintf("%s|%d|%s|%s", userID, gen, view, query)
}

func (c *statsCache) Get(key string) (any, bool) { return c.c.Get(key) }

func (c *statsCache) Set(key string, val any) {
	c.c.SetWithTTL(key, val, 1, c.ttl)
	c.c.Wait()
}

func (c *statsCache) Invalidate(userID string) {
	c.mu.Lock()
	c.gens[userID]++
	c.mu.Unlock()
}

func (c *statsCache) Close() { c.c.Close() }
