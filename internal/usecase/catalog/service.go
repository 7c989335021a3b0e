package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campushq/catalog/internal/domain"
	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/catalog/field"
	"github.com/campushq/catalog/internal/domain/record"
)

// Info pairs a catalog schema with its current record count.
type Info struct {
	Catalog     domcat.Catalog
	RecordCount int
}

// Service handles catalog listing and record mutations. Mutations are a
// store-level concern; the query engine only ever reads.
type Service struct {
	repo Repository
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one catalog schema.
func (s *Service) Get(ctx context.Context, name string) (domcat.Catalog, error) {
	cat, err := s.repo.Get(ctx, name)
	if err != nil {
		return domcat.Catalog{}, fmt.Errorf("get catalog: %w", err)
	}
	return cat, nil
}

// List returns all catalogs with record counts, sorted by name.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	cats, err := s.repo.Catalogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}

	infos := make([]Info, 0, len(cats))
	for _, cat := range cats {
		n, err := s.repo.Count(ctx, cat.Name())
		if err != nil {
			return nil, fmt.Errorf("count records in %s: %w", cat.Name(), err)
		}
		infos = append(infos, Info{Catalog: cat, RecordCount: n})
	}
	return infos, nil
}

// GetRecord returns one record by id.
func (s *Service) GetRecord(ctx context.Context, catalogName, id string) (record.Record, error) {
	rec, err := s.repo.GetRecord(ctx, catalogName, id)
	if err != nil {
		return record.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Append validates a record against the catalog schema and appends it.
// A record without an id gets a generated one.
func (s *Service) Append(ctx context.Context, catalogName string, rec record.Record) (record.Record, error) {
	cat, err := s.repo.Get(ctx, catalogName)
	if err != nil {
		return record.Record{}, fmt.Errorf("get catalog: %w", err)
	}

	if rec.ID() == "" {
		rec = record.Reconstruct(uuid.NewString(), rec.Tags(), rec.Numerics(), rec.Dates(), rec.Lists())
	}

	if err := validateAgainstSchema(rec, cat); err != nil {
		return record.Record{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	if err := s.repo.Append(ctx, catalogName, rec); err != nil {
		return record.Record{}, fmt.Errorf("append record: %w", err)
	}
	return rec, nil
}

// Update validates a record against the catalog schema and replaces the
// stored record with the same id, preserving its position.
func (s *Service) Update(ctx context.Context, catalogName string, rec record.Record) error {
	cat, err := s.repo.Get(ctx, catalogName)
	if err != nil {
		return fmt.Errorf("get catalog: %w", err)
	}

	if rec.ID() == "" {
		return fmt.Errorf("%w: record id is required", domain.ErrInvalidSchema)
	}

	if err := validateAgainstSchema(rec, cat); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	if err := s.repo.Update(ctx, catalogName, rec); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// validateAgainstSchema ensures every populated record field is declared in
// the catalog with a matching type.
func validateAgainstSchema(rec record.Record, cat domcat.Catalog) error {
	for name := range rec.Tags() {
		if err := checkField(cat, name, field.Tag); err != nil {
			return err
		}
	}
	for name := range rec.Numerics() {
		if err := checkField(cat, name, field.Numeric); err != nil {
			return err
		}
	}
	for name := range rec.Dates() {
		if err := checkField(cat, name, field.Date); err != nil {
			return err
		}
	}
	for name := range rec.Lists() {
		if err := checkField(cat, name, field.List); err != nil {
			return err
		}
	}
	return nil
}

func checkField(cat domcat.Catalog, name string, want field.Type) error {
	f, ok := cat.FieldByName(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	if f.FieldType() != want {
		return fmt.Errorf("field %q is %s, record value is %s", name, f.FieldType(), want)
	}
	return nil
}
