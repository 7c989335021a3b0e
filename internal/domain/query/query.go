package query

import "fmt"

// Query parameter limits.
const (
	// MaxTextLength is the maximum allowed free-text length.
	MaxTextLength   = 256
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// All is the sentinel filter value meaning "no constraint". It is distinct
// from the empty string, which matches records whose field is empty.
const All = "all"

// Match is the free-text matching strategy.
type Match string

// Match mode constants.
const (
	// Substring matches when any searchable field contains the text
	// case-insensitively.
	Substring Match = "substring"
	// Fuzzy matches when the text fuzzy-matches any searchable field.
	Fuzzy Match = "fuzzy"
)

// IsValid checks if the match mode is one of the supported values.
func (m Match) IsValid() bool {
	return m == Substring || m == Fuzzy
}

// Query is a validated, immutable search selection: free text, filters,
// sort key, and a pagination window.
type Query struct {
	text      string
	matchMode Match
	filters   map[string]string
	sortKey   Sort
	page      int
	pageSize  int
}

// New validates and normalizes query parameters.
// Defaults: match=substring, sort=default, pageSize=20.
// Page below 1 is clamped to 1; pageSize is clamped to MaxPageSize.
// A negative pageSize and unknown match/sort values are contract violations.
func New(
	text string,
	matchMode Match,
	filters map[string]string,
	sortKey Sort,
	page, pageSize int,
) (Query, error) {
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("query text too long (max %d chars)", MaxTextLength)
	}
	if matchMode == "" {
		matchMode = Substring
	}
	if !matchMode.IsValid() {
		return Query{}, fmt.Errorf("invalid match mode: %q", matchMode)
	}
	if sortKey == "" {
		sortKey = SortDefault
	}
	if !sortKey.IsValid() {
		return Query{}, fmt.Errorf("invalid sort key: %q", sortKey)
	}
	if pageSize < 0 {
		return Query{}, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	active := make(map[string]string, len(filters))
	for k, v := range filters {
		if v == All {
			continue
		}
		active[k] = v
	}

	return Query{
		text:      text,
		matchMode: matchMode,
		filters:   active,
		sortKey:   sortKey,
		page:      page,
		pageSize:  pageSize,
	}, nil
}

// Text returns the free-text query.
func (q Query) Text() string { return q.text }

// MatchMode returns the text matching strategy.
func (q Query) MatchMode() Match { return q.matchMode }

// Filters returns the active filter selections. Sentinel ("all") entries
// are already removed.
func (q Query) Filters() map[string]string { return q.filters }

// SortKey returns the result ordering.
func (q Query) SortKey() Sort { return q.sortKey }

// Page returns the 1-based page number.
func (q Query) Page() int { return q.page }

// PageSize returns the page window size.
func (q Query) PageSize() int { return q.pageSize }

// WithText returns a copy with new text and the page reset to 1.
func (q Query) WithText(text string) Query {
	q.text = text
	q.page = 1
	return q
}

// WithMatchMode returns a copy with a new match mode and the page reset to 1.
func (q Query) WithMatchMode(m Match) Query {
	q.matchMode = m
	q.page = 1
	return q
}

// WithFilter returns a copy with the filter set and the page reset to 1.
// Setting the sentinel value removes the filter.
func (q Query) WithFilter(key, value string) Query {
	filters := make(map[string]string, len(q.filters)+1)
	for k, v := range q.filters {
		filters[k] = v
	}
	if value == All {
		delete(filters, key)
	} else {
		filters[key] = value
	}
	q.filters = filters
	q.page = 1
	return q
}

// WithSort returns a copy with a new sort key and the page reset to 1.
func (q Query) WithSort(s Sort) Query {
	q.sortKey = s
	q.page = 1
	return q
}

// WithPage returns a copy on the given page. This is the only mutator that
// does not reset the page.
func (q Query) WithPage(page int) Query {
	if page < 1 {
		page = 1
	}
	q.page = page
	return q
}
