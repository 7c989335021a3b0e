package catalog

import (
	"context"

	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/record"
)

// Repository defines the storage contract for catalog operations.
type Repository interface {
	Get(ctx context.Context, name string) (domcat.Catalog, error)
	Catalogs(ctx context.Context) ([]domcat.Catalog, error)
	Count(ctx context.Context, catalogName string) (int, error)
	GetRecord(ctx context.Context, catalogName, id string) (record.Record, error)
	Append(ctx context.Context, catalogName string, rec record.Record) error
	Update(ctx context.Context, catalogName string, rec record.Record) error
}
