package field

import "fmt"

// Type is the declared type of a catalog field.
type Type string

// Field type constants.
const (
	// Tag is a scalar string field, exact-match filterable.
	Tag Type = "tag"
	// Numeric is a float64 metric field.
	Numeric Type = "numeric"
	// Date is an instant field.
	Date Type = "date"
	// List is an ordered list of strings, containment-filterable.
	List Type = "list"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Tag || t == Numeric || t == Date || t == List
}

// Sort role constants. A field may back at most one sort key.
const (
	SortLatest   = "latest"
	SortPopular  = "popular"
	SortTrending = "trending"
)

var reservedFieldNames = map[string]bool{
	"id": true,
}

// Field is an immutable value object describing a declared catalog field.
type Field struct {
	name       string
	fieldType  Type
	searchable bool
	sortRole   string
}

// New validates and creates a Field.
// Name must be non-empty, max 64 chars, and not reserved.
// Searchable is allowed on tag and list fields only.
// Sort roles: latest requires a date field, popular/trending a numeric field.
func New(name string, ft Type, searchable bool, sortRole string) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("field name %q too long (max 64)", name)
	}
	if reservedFieldNames[name] {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	if searchable && ft != Tag && ft != List {
		return Field{}, fmt.Errorf("field %q: only tag and list fields are searchable", name)
	}
	switch sortRole {
	case "":
	case SortLatest:
		if ft != Date {
			return Field{}, fmt.Errorf("field %q: sort role %q requires a date field", name, sortRole)
		}
	case SortPopular, SortTrending:
		if ft != Numeric {
			return Field{}, fmt.Errorf("field %q: sort role %q requires a numeric field", name, sortRole)
		}
	default:
		return Field{}, fmt.Errorf("field %q: unknown sort role %q", name, sortRole)
	}
	return Field{name: name, fieldType: ft, searchable: searchable, sortRole: sortRole}, nil
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(name string, ft Type, searchable bool, sortRole string) Field {
	return Field{name: name, fieldType: ft, searchable: searchable, sortRole: sortRole}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's declared type.
func (f Field) FieldType() Type { return f.fieldType }

// Searchable reports whether free-text search inspects this field.
func (f Field) Searchable() bool { return f.searchable }

// SortRole returns the sort key this field backs ("" if none).
func (f Field) SortRole() string { return f.sortRole }
