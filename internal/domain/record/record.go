package record

import (
	"fmt"
	"time"
)

// Record is one catalog entry: a stable id plus typed field values
// (immutable value object). Field names are interpreted against the
// owning catalog's schema.
type Record struct {
	id       string
	tags     map[string]string
	numerics map[string]float64
	dates    map[string]time.Time
	lists    map[string][]string
}

// New validates and creates a Record. The id must be non-empty.
func New(
	id string,
	tags map[string]string,
	numerics map[string]float64,
	dates map[string]time.Time,
	lists map[string][]string,
) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record id is required")
	}
	if len(id) > 128 {
		return Record{}, fmt.Errorf("record id too long (max 128)")
	}
	return Reconstruct(id, tags, numerics, dates, lists), nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	id string,
	tags map[string]string,
	numerics map[string]float64,
	dates map[string]time.Time,
	lists map[string][]string,
) Record {
	return Record{id: id, tags: tags, numerics: numerics, dates: dates, lists: lists}
}

// ID returns the stable record identifier.
func (r *Record) ID() string { return r.id }

// Tag returns a scalar string field value.
func (r *Record) Tag(name string) (string, bool) {
	v, ok := r.tags[name]
	return v, ok
}

// Numeric returns a numeric field value.
func (r *Record) Numeric(name string) (float64, bool) {
	v, ok := r.numerics[name]
	return v, ok
}

// Date returns a date field value.
func (r *Record) Date(name string) (time.Time, bool) {
	v, ok := r.dates[name]
	return v, ok
}

// List returns a list field value.
func (r *Record) List(name string) ([]string, bool) {
	v, ok := r.lists[name]
	return v, ok
}

// Tags returns all scalar string fields.
func (r *Record) Tags() map[string]string { return r.tags }

// Numerics returns all numeric fields.
func (r *Record) Numerics() map[string]float64 { return r.numerics }

// Dates returns all date fields.
func (r *Record) Dates() map[string]time.Time { return r.dates }

// Lists returns all list fields.
func (r *Record) Lists() map[string][]string { return r.lists }
