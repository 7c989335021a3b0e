package catalog

import (
	"context"
	"fmt"

	"github.com/campushq/catalog/internal/domain/query"
)

// SortKey selects the result ordering.
type SortKey string

// Supported sort keys. Default preserves insertion order; the others
// require a schema field tagged with the matching modifier.
const (
	SortDefault  SortKey = "default"
	SortLatest   SortKey = "latest"
	SortPopular  SortKey = "popular"
	SortTrending SortKey = "trending"
)

// All is the filter value meaning "no constraint" on that key.
const All = query.All

// Page is one window of typed search results.
type Page[T any] struct {
	Items        []T
	TotalMatched int
	PageIndex    int
	PageCount    int
}

// SearchBuilder is a fluent builder for typed dataset queries.
type SearchBuilder[T any] struct {
	ds *Dataset[T]

	text    string
	fuzzy   bool
	filters map[string]string
	sortKey SortKey
	page    int
	size    int
}

// Text sets the free-text query, matched case-insensitively against the
// searchable fields.
func (b *SearchBuilder[T]) Text(text string) *SearchBuilder[T] {
	b.text = text
	return b
}

// Fuzzy switches text matching from substring to fuzzy.
func (b *SearchBuilder[T]) Fuzzy() *SearchBuilder[T] {
	b.fuzzy = true
	return b
}

// Where adds a filter on a schema field. The All value removes the
// constraint; unknown keys are ignored at evaluation.
func (b *SearchBuilder[T]) Where(key, value string) *SearchBuilder[T] {
	b.filters[key] = value
	return b
}

// Sort sets the result ordering.
func (b *SearchBuilder[T]) Sort(key SortKey) *SearchBuilder[T] {
	b.sortKey = key
	return b
}

// Page sets the 1-based page number.
func (b *SearchBuilder[T]) Page(n int) *SearchBuilder[T] {
	b.page = n
	return b
}

// PageSize sets the page window size.
func (b *SearchBuilder[T]) PageSize(n int) *SearchBuilder[T] {
	b.size = n
	return b
}

// Do evaluates the query and returns a typed page of results.
func (b *SearchBuilder[T]) Do(ctx context.Context) (Page[T], error) {
	mode := query.Substring
	if b.fuzzy {
		mode = query.Fuzzy
	}
	q, err := query.New(b.text, mode, b.filters, query.Sort(b.sortKey), b.page, b.size)
	if err != nil {
		return Page[T]{}, fmt.Errorf("catalog: %w", err)
	}

	page, err := b.ds.svc.Evaluate(ctx, b.ds.Name(), q)
	if err != nil {
		return Page[T]{}, fmt.Errorf("catalog: %w", err)
	}

	items := make([]T, 0, len(page.Items()))
	for _, rec := range page.Items() {
		items = append(items, b.ds.meta.fromRecord(rec).(T))
	}
	return Page[T]{
		Items:        items,
		TotalMatched: page.TotalMatched(),
		PageIndex:    page.PageIndex(),
		PageCount:    page.PageCount(),
	}, nil
}
