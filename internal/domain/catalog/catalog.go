package catalog

import (
	"fmt"
	"regexp"
	"time"

	"github.com/campushq/catalog/internal/domain/catalog/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Catalog is a named dataset aggregate: a declared schema plus a revision
// that is bumped on every record mutation (immutable value object).
type Catalog struct {
	name      string
	fields    []field.Field
	createdAt int64
	revision  int
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("catalog name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("catalog name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("catalog name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("at least one field is required")
	}
	if len(fields) > 64 {
		return fmt.Errorf("too many fields (max 64)")
	}
	seen := make(map[string]bool, len(fields))
	roles := make(map[string]string, 3)
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
		if role := f.SortRole(); role != "" {
			if prev, ok := roles[role]; ok {
				return fmt.Errorf("sort role %q bound to both %q and %q", role, prev, f.Name())
			}
			roles[role] = f.Name()
		}
	}
	return nil
}

// New validates and creates a Catalog.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Fields: unique names, max 64,
// each sort role bound to at most one field.
func New(name string, fields []field.Field) (Catalog, error) {
	if err := validateName(name); err != nil {
		return Catalog{}, err
	}
	if err := validateFields(fields); err != nil {
		return Catalog{}, err
	}
	return Catalog{
		name:      name,
		fields:    fields,
		createdAt: time.Now().UnixMilli(),
		revision:  1,
	}, nil
}

// Reconstruct creates a Catalog without validation (storage hydration).
func Reconstruct(name string, fields []field.Field, createdAt int64, revision int) Catalog {
	return Catalog{name: name, fields: fields, createdAt: createdAt, revision: revision}
}

// Name returns the catalog name.
func (c Catalog) Name() string { return c.name }

// Fields returns the declared fields.
func (c Catalog) Fields() []field.Field { return c.fields }

// CreatedAt returns the creation timestamp in unix milliseconds.
func (c Catalog) CreatedAt() int64 { return c.createdAt }

// Revision returns the mutation revision, starting at 1.
func (c Catalog) Revision() int { return c.revision }

// Bumped returns a copy with the revision incremented.
func (c Catalog) Bumped() Catalog {
	c.revision++
	return c
}

// FieldByName looks up a declared field.
func (c Catalog) FieldByName(name string) (field.Field, bool) {
	for _, f := range c.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// SearchableFields returns the fields free-text search inspects.
func (c Catalog) SearchableFields() []field.Field {
	var out []field.Field
	for _, f := range c.fields {
		if f.Searchable() {
			out = append(out, f)
		}
	}
	return out
}

// SortField returns the name of the field backing the given sort role.
func (c Catalog) SortField(role string) (string, bool) {
	for _, f := range c.fields {
		if f.SortRole() == role {
			return f.Name(), true
		}
	}
	return "", false
}
