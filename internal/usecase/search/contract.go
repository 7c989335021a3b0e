package search

import (
	"context"

	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/query"
	"github.com/campushq/catalog/internal/domain/record"
)

// CatalogReader reads catalog schemas.
type CatalogReader interface {
	Get(ctx context.Context, name string) (domcat.Catalog, error)
}

// RecordLister lists a catalog's records in insertion order.
type RecordLister interface {
	List(ctx context.Context, catalogName string) ([]record.Record, error)
}

// Evaluator evaluates a query against a catalog. Implemented by Service
// and by the caching decorator.
type Evaluator interface {
	Evaluate(ctx context.Context, catalogName string, q query.Query) (query.Page, error)
}
