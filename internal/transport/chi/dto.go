package chi

import (
	"time"

	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/query"
	"github.com/campushq/catalog/internal/domain/record"
	domtransfer "github.com/campushq/catalog/internal/domain/transfer"
	cataloguc "github.com/campushq/catalog/internal/usecase/catalog"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeRecordNotFound   = "record_not_found"
	codeAlreadyExists    = "already_exists"
	codeUnavailable      = "unavailable"
	codeInternal         = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type fieldDTO struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Searchable bool   `json:"searchable,omitempty"`
	Sort       string `json:"sort,omitempty"`
}

type catalogDTO struct {
	Name        string     `json:"name"`
	Revision    int        `json:"revision"`
	RecordCount int        `json:"record_count"`
	Fields      []fieldDTO `json:"fields"`
}

type recordDTO struct {
	ID       string               `json:"id"`
	Tags     map[string]string    `json:"tags,omitempty"`
	Numerics map[string]float64   `json:"numerics,omitempty"`
	Dates    map[string]time.Time `json:"dates,omitempty"`
	Lists    map[string][]string  `json:"lists,omitempty"`
}

type pageDTO struct {
	Items        []recordDTO `json:"items"`
	TotalMatched int         `json:"total_matched"`
	Page         int         `json:"page"`
	PageCount    int         `json:"page_count"`
}

type transferDTO struct {
	ItemID    string     `json:"item_id"`
	Progress  float64    `json:"progress"`
	State     string     `json:"state"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

type startTransferRequest struct {
	Catalog string `json:"catalog"`
	ItemID  string `json:"item_id"`
}

func catalogToDTO(info cataloguc.Info) catalogDTO {
	return catalogDTO{
		Name:        info.Catalog.Name(),
		Revision:    info.Catalog.Revision(),
		RecordCount: info.RecordCount,
		Fields:      fieldsToDTO(info.Catalog),
	}
}

func fieldsToDTO(cat domcat.Catalog) []fieldDTO {
	out := make([]fieldDTO, 0, len(cat.Fields()))
	for _, f := range cat.Fields() {
		out = append(out, fieldDTO{
			Name:       f.Name(),
			Type:       string(f.FieldType()),
			Searchable: f.Searchable(),
			Sort:       f.SortRole(),
		})
	}
	return out
}

func recordToDTO(rec record.Record) recordDTO {
	return recordDTO{
		ID:       rec.ID(),
		Tags:     rec.Tags(),
		Numerics: rec.Numerics(),
		Dates:    rec.Dates(),
		Lists:    rec.Lists(),
	}
}

// recordFromDTO hydrates without validation: append generates missing ids
// and the catalog service validates against the schema.
func recordFromDTO(dto recordDTO) record.Record {
	return record.Reconstruct(dto.ID, dto.Tags, dto.Numerics, dto.Dates, dto.Lists)
}

func pageToDTO(p query.Page) pageDTO {
	items := make([]recordDTO, 0, len(p.Items()))
	for _, rec := range p.Items() {
		items = append(items, recordToDTO(rec))
	}
	return pageDTO{
		Items:        items,
		TotalMatched: p.TotalMatched(),
		Page:         p.PageIndex(),
		PageCount:    p.PageCount(),
	}
}

func transferToDTO(t domtransfer.Transfer) transferDTO {
	started := t.StartedAt()
	return transferDTO{
		ItemID:    t.ItemID(),
		Progress:  t.Progress(),
		State:     string(t.State()),
		StartedAt: &started,
	}
}

func idleTransferDTO(itemID string) transferDTO {
	return transferDTO{ItemID: itemID, Progress: 0, State: string(domtransfer.Idle)}
}
