// Package catalog is a typed, in-process catalog query engine: declare a
// dataset schema with struct tags, load records, and run filtered,
// sorted, paginated searches through a fluent builder.
//
//	type Book struct {
//		ID     string `catalog:"id,id"`
//		Title  string `catalog:"title,search"`
//		Status string `catalog:"status"`
//		Views  int    `catalog:"views,popular"`
//	}
//
//	ds, _ := catalog.NewDataset[Book]("books", books...)
//	page, _ := ds.Search().Text("chemistry").Where("status", "available").Do(ctx)
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/campushq/catalog/internal/domain"
	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/record"
	"github.com/campushq/catalog/internal/usecase/search"
)

// Dataset is a typed in-memory catalog. Records are kept in insertion
// order; that order is the "default" sort. Safe for concurrent use.
type Dataset[T any] struct {
	meta *schemaMeta

	mu    sync.RWMutex
	cat   domcat.Catalog
	order []string
	byID  map[string]record.Record

	svc *search.Service
}

// NewDataset parses T's catalog struct tags, declares the schema, and
// loads the given items.
func NewDataset[T any](name string, items ...T) (*Dataset[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, err
	}
	cat, err := domcat.New(name, meta.fields)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	d := &Dataset[T]{
		meta: meta,
		cat:  cat,
		byID: make(map[string]record.Record, len(items)),
	}
	d.svc = search.New(datasetStore[T]{d}, datasetStore[T]{d})

	for _, item := range items {
		if err := d.Add(item); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Name returns the dataset name.
func (d *Dataset[T]) Name() string { return d.cat.Name() }

// Len returns the number of records.
func (d *Dataset[T]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Add appends an item. The item's id must be non-empty and unused.
func (d *Dataset[T]) Add(item T) error {
	rec, err := d.meta.toRecord(item)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[rec.ID()]; ok {
		return fmt.Errorf("catalog: record %q: %w", rec.ID(), domain.ErrAlreadyExists)
	}
	d.byID[rec.ID()] = rec
	d.order = append(d.order, rec.ID())
	d.cat = d.cat.Bumped()
	return nil
}

// Update replaces an existing item in place, keeping its position in the
// default order.
func (d *Dataset[T]) Update(item T) error {
	rec, err := d.meta.toRecord(item)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[rec.ID()]; !ok {
		return fmt.Errorf("catalog: record %q: %w", rec.ID(), domain.ErrRecordNotFound)
	}
	d.byID[rec.ID()] = rec
	d.cat = d.cat.Bumped()
	return nil
}

// Get returns the item with the given id.
func (d *Dataset[T]) Get(id string) (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return d.meta.fromRecord(rec).(T), true
}

// Search starts a fluent query against the dataset.
func (d *Dataset[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{ds: d, filters: make(map[string]string)}
}

// datasetStore adapts a Dataset to the evaluator's store contracts.
type datasetStore[T any] struct {
	d *Dataset[T]
}

func (s datasetStore[T]) Get(_ context.Context, name string) (domcat.Catalog, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	if name != s.d.cat.Name() {
		return domcat.Catalog{}, domain.ErrNotFound
	}
	return s.d.cat, nil
}

func (s datasetStore[T]) List(_ context.Context, name string) ([]record.Record, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	if name != s.d.cat.Name() {
		return nil, domain.ErrNotFound
	}
	out := make([]record.Record, 0, len(s.d.order))
	for _, id := range s.d.order {
		out = append(out, s.d.byID[id])
	}
	return out, nil
}
