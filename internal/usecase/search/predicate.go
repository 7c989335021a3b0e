package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/catalog/field"
	"github.com/campushq/catalog/internal/domain/query"
	"github.com/campushq/catalog/internal/domain/record"
)

// predicate is a boolean test deciding whether a record matches a query.
type predicate func(record.Record) bool

// buildPredicate compiles the query's text and filter selections into a
// single predicate over one record: text-match AND every active filter.
func buildPredicate(q query.Query, cat domcat.Catalog) predicate {
	text := buildTextPredicate(q, cat)
	filters := buildFilterPredicates(q, cat)

	return func(r record.Record) bool {
		if !text(r) {
			return false
		}
		for _, f := range filters {
			if !f(r) {
				return false
			}
		}
		return true
	}
}

// buildTextPredicate matches the query text against every searchable field;
// any one field matching is enough. Empty text, or a schema with no
// searchable fields, matches everything.
func buildTextPredicate(q query.Query, cat domcat.Catalog) predicate {
	text := strings.ToLower(strings.TrimSpace(q.Text()))
	searchable := cat.SearchableFields()
	if text == "" || len(searchable) == 0 {
		return func(record.Record) bool { return true }
	}

	match := func(value string) bool {
		return strings.Contains(strings.ToLower(value), text)
	}
	if q.MatchMode() == query.Fuzzy {
		match = func(value string) bool {
			return fuzzy.MatchFold(text, value)
		}
	}

	return func(r record.Record) bool {
		for _, f := range searchable {
			switch f.FieldType() {
			case field.Tag:
				if v, ok := r.Tag(f.Name()); ok && match(v) {
					return true
				}
			case field.List:
				if vs, ok := r.List(f.Name()); ok {
					for _, v := range vs {
						if match(v) {
							return true
						}
					}
				}
			}
		}
		return false
	}
}

// buildFilterPredicates compiles each active filter selection. Scalar tag
// fields compare exactly; list fields match when any element contains the
// selected value case-insensitively. Filter keys that do not name a tag or
// list field in the schema are ignored.
func buildFilterPredicates(q query.Query, cat domcat.Catalog) []predicate {
	var out []predicate
	for key, want := range q.Filters() {
		want := want
		f, ok := cat.FieldByName(key)
		if !ok {
			continue
		}
		switch f.FieldType() {
		case field.Tag:
			name := f.Name()
			out = append(out, func(r record.Record) bool {
				v, ok := r.Tag(name)
				return ok && v == want
			})
		case field.List:
			name := f.Name()
			needle := strings.ToLower(want)
			out = append(out, func(r record.Record) bool {
				vs, ok := r.List(name)
				if !ok {
					return false
				}
				for _, v := range vs {
					if strings.Contains(strings.ToLower(v), needle) {
						return true
					}
				}
				return false
			})
		}
	}
	return out
}
