package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/campushq/catalog/internal/domain"
	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/record"
)

// Repo is the in-memory catalog store. Records live for the process
// lifetime only, like the mock arrays of the original screens. Reads are
// concurrent; mutations bump the owning catalog's revision and are fully
// visible before the next read returns.
type Repo struct {
	mu   sync.RWMutex
	sets map[string]*dataset
}

// dataset keeps records addressable by id while preserving insertion
// order, which is the engine's default result order.
type dataset struct {
	cat   domcat.Catalog
	order []string
	byID  map[string]record.Record
}

// New creates an empty store.
func New() *Repo {
	return &Repo{sets: make(map[string]*dataset)}
}

// NewSeeded creates a store loaded with the embedded sample datasets.
func NewSeeded() (*Repo, error) {
	r := New()
	if err := r.loadSeeds(); err != nil {
		return nil, fmt.Errorf("load seeds: %w", err)
	}
	return r, nil
}

// CreateCatalog registers a catalog with its initial records.
func (r *Repo) CreateCatalog(_ context.Context, cat domcat.Catalog, records []record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sets[cat.Name()]; ok {
		return fmt.Errorf("catalog %s: %w", cat.Name(), domain.ErrAlreadyExists)
	}

	ds := &dataset{cat: cat, byID: make(map[string]record.Record, len(records))}
	for _, rec := range records {
		if _, ok := ds.byID[rec.ID()]; ok {
			return fmt.Errorf("record %s in catalog %s: %w", rec.ID(), cat.Name(), domain.ErrAlreadyExists)
		}
		ds.order = append(ds.order, rec.ID())
		ds.byID[rec.ID()] = rec
	}
	r.sets[cat.Name()] = ds
	return nil
}

// Get returns one catalog schema.
func (r *Repo) Get(_ context.Context, name string) (domcat.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.sets[name]
	if !ok {
		return domcat.Catalog{}, fmt.Errorf("catalog %s: %w", name, domain.ErrNotFound)
	}
	return ds.cat, nil
}

// Catalogs returns all catalog schemas, sorted by name.
func (r *Repo) Catalogs(_ context.Context) ([]domcat.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domcat.Catalog, 0, len(r.sets))
	for _, ds := range r.sets {
		out = append(out, ds.cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// List returns the catalog's records in insertion order. The slice is a
// copy; callers may reorder it freely.
func (r *Repo) List(_ context.Context, catalogName string) ([]record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.sets[catalogName]
	if !ok {
		return nil, fmt.Errorf("catalog %s: %w", catalogName, domain.ErrNotFound)
	}

	out := make([]record.Record, 0, len(ds.order))
	for _, id := range ds.order {
		out = append(out, ds.byID[id])
	}
	return out, nil
}

// Count returns the number of records in the catalog.
func (r *Repo) Count(_ context.Context, catalogName string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.sets[catalogName]
	if !ok {
		return 0, fmt.Errorf("catalog %s: %w", catalogName, domain.ErrNotFound)
	}
	return len(ds.order), nil
}

// GetRecord returns one record by id.
func (r *Repo) GetRecord(_ context.Context, catalogName, id string) (record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.sets[catalogName]
	if !ok {
		return record.Record{}, fmt.Errorf("catalog %s: %w", catalogName, domain.ErrNotFound)
	}
	rec, ok := ds.byID[id]
	if !ok {
		return record.Record{}, fmt.Errorf("record %s: %w", id, domain.ErrRecordNotFound)
	}
	return rec, nil
}

// Append adds a record at the end of the catalog and bumps the revision.
func (r *Repo) Append(_ context.Context, catalogName string, rec record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.sets[catalogName]
	if !ok {
		return fmt.Errorf("catalog %s: %w", catalogName, domain.ErrNotFound)
	}
	if _, ok := ds.byID[rec.ID()]; ok {
		return fmt.Errorf("record %s: %w", rec.ID(), domain.ErrAlreadyExists)
	}

	ds.order = append(ds.order, rec.ID())
	ds.byID[rec.ID()] = rec
	ds.cat = ds.cat.Bumped()
	return nil
}

// Update replaces the record with the same id in place, preserving its
// position, and bumps the revision.
func (r *Repo) Update(_ context.Context, catalogName string, rec record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.sets[catalogName]
	if !ok {
		return fmt.Errorf("catalog %s: %w", catalogName, domain.ErrNotFound)
	}
	if _, ok := ds.byID[rec.ID()]; !ok {
		return fmt.Errorf("record %s: %w", rec.ID(), domain.ErrRecordNotFound)
	}

	ds.byID[rec.ID()] = rec
	ds.cat = ds.cat.Bumped()
	return nil
}

// Ping reports store readiness: at least one catalog must be loaded.
func (r *Repo) Ping(_ context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.sets) == 0 {
		return fmt.Errorf("no catalogs loaded")
	}
	return nil
}
