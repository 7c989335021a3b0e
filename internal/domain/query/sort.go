package query

// Sort is the result ordering strategy.
type Sort string

// Sort key constants.
const (
	// SortDefault preserves the store's insertion order.
	SortDefault Sort = "default"
	// SortLatest orders descending by the catalog's date field.
	SortLatest Sort = "latest"
	// SortPopular orders descending by the catalog's popularity metric.
	SortPopular Sort = "popular"
	// SortTrending orders descending by the catalog's trending metric.
	SortTrending Sort = "trending"
)

// IsValid checks if the sort key is one of the supported values.
func (s Sort) IsValid() bool {
	return s == SortDefault || s == SortLatest || s == SortPopular || s == SortTrending
}
