package service

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/sethah/ratingsim/internal/metrics"
	"github.com/sethah/ratingsim/internal/ratings"
)

// SummaryCache memoizes coefficient summaries keyed by parameter hash.
// Experiments are deterministic, so a cached summary never goes stale before
// its TTL; the TTL only bounds memory during long sweeps.
type SummaryCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewSummaryCache creates a summary cache with the given TTL.
func NewSummaryCache(ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached summary, or nil on a miss.
func (c *SummaryCache) Get(key string) *ratings.CoefficientSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, found := c.cache.Get(key); found {
		if summary, ok := v.(*ratings.CoefficientSummary); ok {
			c.hitCount++
			c.updateMetrics()
			return summary
		}
	}

	c.missCount++
	c.updateMetrics()
	return nil
}

// Set stores a summary.
func (c *SummaryCache) Set(key string, summary *ratings.CoefficientSummary) {
	c.cache.Set(key, summary, c.ttl)
}

// Stats returns cache statistics.
func (c *SummaryCache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits = c.hitCount
	misses = c.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached summaries.
func (c *SummaryCache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *SummaryCache) updateMetrics() {
	total := c.hitCount + c.missCount
	if total > 0 {
		metrics.UpdateCacheHitRatio(float64(c.hitCount) / float64(total))
	}
}
