package query

import "github.com/campushq/catalog/internal/domain/record"

// Page is one windowed slice of a matched, ordered result set.
type Page struct {
	items        []record.Record
	totalMatched int
	pageIndex    int
	pageCount    int
}

// NewPage creates a result page.
func NewPage(items []record.Record, totalMatched, pageIndex, pageCount int) Page {
	return Page{
		items:        items,
		totalMatched: totalMatched,
		pageIndex:    pageIndex,
		pageCount:    pageCount,
	}
}

// Items returns the records on this page, in result order.
func (p *Page) Items() []record.Record { return p.items }

// TotalMatched returns the count of records matching the query before
// pagination.
func (p *Page) TotalMatched() int { return p.totalMatched }

// PageIndex returns the 1-based index of this page (after clamping).
func (p *Page) PageIndex() int { return p.pageIndex }

// PageCount returns the number of pages, at least 1 even for an empty
// result set.
func (p *Page) PageCount() int { return p.pageCount }
