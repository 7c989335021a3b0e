package record

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Success(t *testing.T) {
	added := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rec, err := New("book_001",
		map[string]string{"title": "Go in Practice", "status": "available"},
		map[string]float64{"views": 42},
		map[string]time.Time{"added_at": added},
		map[string][]string{"subjects": {"programming", "go"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ID() != "book_001" {
		t.Errorf("expected id 'book_001', got %q", rec.ID())
	}
	if v, ok := rec.Tag("status"); !ok || v != "available" {
		t.Errorf("expected status 'available', got %q ok=%v", v, ok)
	}
	if v, ok := rec.Numeric("views"); !ok || v != 42 {
		t.Errorf("expected views 42, got %v ok=%v", v, ok)
	}
	if v, ok := rec.Date("added_at"); !ok || !v.Equal(added) {
		t.Errorf("expected added_at %v, got %v ok=%v", added, v, ok)
	}
	if v, ok := rec.List("subjects"); !ok || len(v) != 2 {
		t.Errorf("expected 2 subjects, got %v ok=%v", v, ok)
	}
}

func TestNew_MissingFieldsReportAbsent(t *testing.T) {
	rec, err := New("book_001", nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rec.Tag("title"); ok {
		t.Error("expected absent tag to report ok=false")
	}
	if _, ok := rec.Numeric("views"); ok {
		t.Error("expected absent numeric to report ok=false")
	}
	if _, ok := rec.Date("added_at"); ok {
		t.Error("expected absent date to report ok=false")
	}
	if _, ok := rec.List("subjects"); ok {
		t.Error("expected absent list to report ok=false")
	}
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New("", nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestNew_LongID(t *testing.T) {
	_, err := New(strings.Repeat("x", 129), nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for over-long id")
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	rec := Reconstruct("", nil, nil, nil, nil)
	if rec.ID() != "" {
		t.Errorf("expected empty id preserved, got %q", rec.ID())
	}
}
