package search

import (
	"fmt"
	"sort"

	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/query"
	"github.com/campushq/catalog/internal/domain/record"
)

// orderRecords returns a sorted copy of items for the given sort key.
// Sorting is stable: records with equal keys keep their relative input
// order, so repeated evaluation paginates reproducibly.
func orderRecords(items []record.Record, key query.Sort, cat domcat.Catalog) ([]record.Record, error) {
	out := make([]record.Record, len(items))
	copy(out, items)

	if key == query.SortDefault {
		return out, nil
	}

	fieldName, ok := cat.SortField(string(key))
	if !ok {
		return nil, fmt.Errorf("catalog %q has no field backing sort %q", cat.Name(), key)
	}

	switch key {
	case query.SortLatest:
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := out[i].Date(fieldName)
			b, _ := out[j].Date(fieldName)
			return a.After(b)
		})
	case query.SortPopular, query.SortTrending:
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := out[i].Numeric(fieldName)
			b, _ := out[j].Numeric(fieldName)
			return a > b
		})
	}

	return out, nil
}
