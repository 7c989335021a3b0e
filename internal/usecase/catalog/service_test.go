package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/campushq/catalog/internal/domain"
	domcat "github.com/campushq/catalog/internal/domain/catalog"
	"github.com/campushq/catalog/internal/domain/catalog/field"
	"github.com/campushq/catalog/internal/domain/record"
)

// --- Mocks ---

type mockRepo struct {
	cat       domcat.Catalog
	cats      []domcat.Catalog
	counts    map[string]int
	rec       record.Record
	appended  record.Record
	updated   record.Record
	getErr    error
	recErr    error
	appendErr error
	updateErr error
}

func (m *mockRepo) Get(_ context.Context, _ string) (domcat.Catalog, error) {
	return m.cat, m.getErr
}

func (m *mockRepo) Catalogs(_ context.Context) ([]domcat.Catalog, error) {
	return m.cats, nil
}

func (m *mockRepo) Count(_ context.Context, name string) (int, error) {
	return m.counts[name], nil
}

func (m *mockRepo) GetRecord(_ context.Context, _, _ string) (record.Record, error) {
	return m.rec, m.recErr
}

func (m *mockRepo) Append(_ context.Context, _ string, rec record.Record) error {
	m.appended = rec
	return m.appendErr
}

func (m *mockRepo) Update(_ context.Context, _ string, rec record.Record) error {
	m.updated = rec
	return m.updateErr
}

// --- Helpers ---

func makeCatalog(t *testing.T) domcat.Catalog {
	t.Helper()
	title, err := field.New("title", field.Tag, true, "")
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	views, err := field.New("views", field.Numeric, false, "")
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	cat, err := domcat.New("books", []field.Field{title, views})
	if err != nil {
		t.Fatalf("domcat.New: %v", err)
	}
	return cat
}

// --- Tests ---

func TestList(t *testing.T) {
	repo := &mockRepo{
		cats:   []domcat.Catalog{makeCatalog(t)},
		counts: map[string]int{"books": 5},
	}
	svc := New(repo)

	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 catalog, got %d", len(infos))
	}
	if infos[0].RecordCount != 5 {
		t.Errorf("expected record count 5, got %d", infos[0].RecordCount)
	}
}

func TestAppend_Success(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t)}
	svc := New(repo)

	rec := record.Reconstruct("book_009", map[string]string{"title": "New Arrival"}, nil, nil, nil)
	out, err := svc.Append(context.Background(), "books", rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID() != "book_009" {
		t.Errorf("expected id preserved, got %q", out.ID())
	}
	if repo.appended.ID() != "book_009" {
		t.Errorf("expected record stored, got %q", repo.appended.ID())
	}
}

func TestAppend_GeneratesID(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t)}
	svc := New(repo)

	rec := record.Reconstruct("", map[string]string{"title": "Anonymous"}, nil, nil, nil)
	out, err := svc.Append(context.Background(), "books", rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID() == "" {
		t.Error("expected a generated id")
	}
}

func TestAppend_UnknownField(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t)}
	svc := New(repo)

	rec := record.Reconstruct("book_009", map[string]string{"shelf": "b2"}, nil, nil, nil)
	_, err := svc.Append(context.Background(), "books", rec)
	if err == nil {
		t.Fatal("expected error for undeclared field")
	}
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestAppend_TypeMismatch(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t)}
	svc := New(repo)

	// "title" is declared as a tag field, supplied here as a numeric.
	rec := record.Reconstruct("book_009", nil, map[string]float64{"title": 1}, nil, nil)
	_, err := svc.Append(context.Background(), "books", rec)
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestAppend_AlreadyExists(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t), appendErr: domain.ErrAlreadyExists}
	svc := New(repo)

	rec := record.Reconstruct("book_001", map[string]string{"title": "Dup"}, nil, nil, nil)
	_, err := svc.Append(context.Background(), "books", rec)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists wrapped, got %v", err)
	}
}

func TestAppend_CatalogNotFound(t *testing.T) {
	repo := &mockRepo{getErr: domain.ErrNotFound}
	svc := New(repo)

	_, err := svc.Append(context.Background(), "missing", record.Reconstruct("r1", nil, nil, nil, nil))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound wrapped, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t)}
	svc := New(repo)

	rec := record.Reconstruct("book_001", map[string]string{"title": "Revised"}, nil, nil, nil)
	if err := svc.Update(context.Background(), "books", rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updated.ID() != "book_001" {
		t.Errorf("expected record updated, got %q", repo.updated.ID())
	}
}

func TestUpdate_RequiresID(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t)}
	svc := New(repo)

	rec := record.Reconstruct("", map[string]string{"title": "No ID"}, nil, nil, nil)
	err := svc.Update(context.Background(), "books", rec)
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestUpdate_RecordNotFound(t *testing.T) {
	repo := &mockRepo{cat: makeCatalog(t), updateErr: domain.ErrRecordNotFound}
	svc := New(repo)

	rec := record.Reconstruct("ghost", map[string]string{"title": "Ghost"}, nil, nil, nil)
	err := svc.Update(context.Background(), "books", rec)
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound wrapped, got %v", err)
	}
}
