package search

import (
	"context"
	"fmt"

	"github.com/campushq/catalog/internal/domain"
	"github.com/campushq/catalog/internal/domain/query"
)

// Service is the query engine: it derives a filtered, ordered, paginated
// page of records from a catalog and a query.
type Service struct {
	catalogs CatalogReader
	records  RecordLister
}

// New creates a search service.
func New(catalogs CatalogReader, records RecordLister) *Service {
	return &Service{catalogs: catalogs, records: records}
}

var _ Evaluator = (*Service)(nil)

// Evaluate runs the query against the named catalog.
//
// The evaluation is pure: for a fixed record set and query it returns the
// same page on every call, and neither the records nor the query are
// mutated. A stale page number beyond the result set clamps to the last
// page; a non-positive page size is a caller contract violation.
func (s *Service) Evaluate(
	ctx context.Context, catalogName string, q query.Query,
) (query.Page, error) {
	if q.PageSize() <= 0 {
		return query.Page{}, fmt.Errorf("%w: page size must be positive, got %d",
			domain.ErrInvalidQuery, q.PageSize())
	}
	if !q.SortKey().IsValid() {
		return query.Page{}, fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidQuery, q.SortKey())
	}
	if !q.MatchMode().IsValid() {
		return query.Page{}, fmt.Errorf("%w: unknown match mode %q", domain.ErrInvalidQuery, q.MatchMode())
	}

	cat, err := s.catalogs.Get(ctx, catalogName)
	if err != nil {
		return query.Page{}, fmt.Errorf("get catalog: %w", err)
	}

	items, err := s.records.List(ctx, catalogName)
	if err != nil {
		return query.Page{}, fmt.Errorf("list records: %w", err)
	}

	matches := buildPredicate(q, cat)
	matched := items[:0:0]
	for _, r := range items {
		if matches(r) {
			matched = append(matched, r)
		}
	}

	ordered, err := orderRecords(matched, q.SortKey(), cat)
	if err != nil {
		return query.Page{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	totalMatched := len(ordered)
	pageCount := (totalMatched + q.PageSize() - 1) / q.PageSize()
	if pageCount < 1 {
		pageCount = 1
	}

	page := q.Page()
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * q.PageSize()
	end := start + q.PageSize()
	if start > totalMatched {
		start = totalMatched
	}
	if end > totalMatched {
		end = totalMatched
	}

	return query.NewPage(ordered[start:end], totalMatched, page, pageCount), nil
}
