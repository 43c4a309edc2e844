package cache

import (
	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/couchcryptid/flight-risk-service/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Assessor is the engine being memoized.
type Assessor interface {
	Assess(reading domain.Reading) domain.Assessment
}

// CachedAssessor wraps an Assessor with an in-memory LRU keyed by
// Reading.Key. Assessments are pure and immutable, so cached results are
// shared between callers.
type CachedAssessor struct {
	inner   Assessor
	cache   *lru.Cache[string, domain.Assessment]
	metrics *observability.Metrics
}

// NewCachedAssessor creates a cache decorator holding at most maxEntries
// assessments. Sizes below 1 are raised to 1.
func NewCachedAssessor(inner Assessor, maxEntries int, metrics *observability.Metrics) *CachedAssessor {
	c := &CachedAssessor{inner: inner, metrics: metrics}
	// NewWithEvict only fails for non-positive sizes.
	c.cache, _ = lru.NewWithEvict(max(maxEntries, 1), c.onEvict)
	return c
}

func (c *CachedAssessor) Assess(reading domain.Reading) domain.Assessment {
	key := reading.Key()
	if result, ok := c.cache.Get(key); ok {
		c.metrics.Cache.WithLabelValues("hit").Inc()
		return result
	}
	c.metrics.Cache.WithLabelValues("miss").Inc()
	result := c.inner.Assess(reading)
	c.cache.Add(key, result)
	return result
}

// Len reports the number of cached assessments.
func (c *CachedAssessor) Len() int {
	return c.cache.Len()
}

func (c *CachedAssessor) onEvict(string, domain.Assessment) {
	c.metrics.Cache.WithLabelValues("evict").Inc()
}
