package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/campushq/catalog/internal/domain/query"
)

// CachedEvaluator caches evaluated pages in a TTL cache. Keys embed the
// catalog revision, so any store mutation makes earlier entries
// unreachable without explicit invalidation.
type CachedEvaluator struct {
	inner      Evaluator
	catalogs   CatalogReader
	cache      *gocache.Cache
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCached creates a caching decorator around an Evaluator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func NewCached(
	inner Evaluator,
	catalogs CatalogReader,
	cache *gocache.Cache,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEvaluator {
	return &CachedEvaluator{
		inner:      inner,
		catalogs:   catalogs,
		cache:      cache,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

var _ Evaluator = (*CachedEvaluator)(nil)

// Evaluate returns a cached page or delegates to the inner evaluator.
func (c *CachedEvaluator) Evaluate(
	ctx context.Context, catalogName string, q query.Query,
) (query.Page, error) {
	cat, err := c.catalogs.Get(ctx, catalogName)
	if err != nil {
		return query.Page{}, fmt.Errorf("get catalog: %w", err)
	}

	key := cacheKey(cat.Name(), cat.Revision(), q)
	if v, ok := c.cache.Get(key); ok {
		if page, ok := v.(query.Page); ok {
			c.incCache("hit")
			return page, nil
		}
		c.logger.Warn("Unexpected cached page type", zap.String("key", key))
	}

	c.incCache("miss")

	page, err := c.inner.Evaluate(ctx, catalogName, q)
	if err != nil {
		return query.Page{}, err
	}

	c.cache.Set(key, page, gocache.DefaultExpiration)
	return page, nil
}

func (c *CachedEvaluator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey fingerprints a query against one catalog revision. Filters are
// serialized in key order so equal selections always produce equal keys.
func cacheKey(catalogName string, revision int, q query.Query) string {
	filters := q.Filters()
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%s|%s|%s|%d|%d",
		catalogName, revision, q.Text(), q.MatchMode(), q.SortKey(), q.Page(), q.PageSize())
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, filters[k])
	}
	return b.String()
}
