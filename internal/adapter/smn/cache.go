package smn

import (
	"context"
	"fmt"

	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/couchcryptid/rainfall-normals/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedFetcher wraps a ReportFetcher with an in-memory LRU cache keyed by
// region code and normalized station code.
type CachedFetcher struct {
	inner   domain.ReportFetcher
	cache   *lru.Cache[string, domain.RawReport]
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner domain.ReportFetcher, maxEntries int, metrics *observability.Metrics) (*CachedFetcher, error) {
	cache, err := lru.New[string, domain.RawReport](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}
	return &CachedFetcher{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedFetcher) Fetch(ctx context.Context, region, stationCode string) (domain.RawReport, error) {
	key, ok := cacheKey(region, stationCode)
	if !ok {
		// Let the inner fetcher report the invalid input.
		return c.inner.Fetch(ctx, region, stationCode)
	}

	if report, ok := c.cache.Get(key); ok {
		c.metrics.ReportCache.WithLabelValues("hit").Inc()
		return report, nil
	}
	c.metrics.ReportCache.WithLabelValues("miss").Inc()

	report, err := c.inner.Fetch(ctx, region, stationCode)
	if err != nil {
		return report, err
	}
	// Only successes are cached so a station published later is picked up.
	c.cache.Add(key, report)
	return report, nil
}

// Len returns the number of cached reports.
func (c *CachedFetcher) Len() int {
	return c.cache.Len()
}

func cacheKey(region, stationCode string) (string, bool) {
	r, err := domain.LookupRegion(region)
	if err != nil {
		return "", false
	}
	code, err := domain.NormalizeStationCode(stationCode)
	if err != nil {
		return "", false
	}
	return r.Code + "|" + code, true
}
