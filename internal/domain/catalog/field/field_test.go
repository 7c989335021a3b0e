package field

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name       string
		fieldName  string
		fieldType  Type
		searchable bool
		sortRole   string
	}{
		{"plain tag", "category", Tag, false, ""},
		{"searchable tag", "title", Tag, true, ""},
		{"searchable list", "subjects", List, true, ""},
		{"date with latest", "published_at", Date, false, SortLatest},
		{"numeric with popular", "views", Numeric, false, SortPopular},
		{"numeric with trending", "likes", Numeric, false, SortTrending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.fieldName, tt.fieldType, tt.searchable, tt.sortRole)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Name() != tt.fieldName {
				t.Errorf("expected name %q, got %q", tt.fieldName, f.Name())
			}
			if f.FieldType() != tt.fieldType {
				t.Errorf("expected type %q, got %q", tt.fieldType, f.FieldType())
			}
			if f.Searchable() != tt.searchable {
				t.Errorf("expected searchable %v, got %v", tt.searchable, f.Searchable())
			}
			if f.SortRole() != tt.sortRole {
				t.Errorf("expected sort role %q, got %q", tt.sortRole, f.SortRole())
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		fieldName  string
		fieldType  Type
		searchable bool
		sortRole   string
		wantErr    string
	}{
		{"empty name", "", Tag, false, "", "name is required"},
		{"long name", strings.Repeat("a", 65), Tag, false, "", "too long"},
		{"reserved name", "id", Tag, false, "", "reserved"},
		{"invalid type", "views", Type("counter"), false, "", "invalid field type"},
		{"searchable numeric", "views", Numeric, true, "", "searchable"},
		{"searchable date", "published_at", Date, true, "", "searchable"},
		{"latest on numeric", "views", Numeric, false, SortLatest, "requires a date field"},
		{"popular on date", "published_at", Date, false, SortPopular, "requires a numeric field"},
		{"trending on tag", "category", Tag, false, SortTrending, "requires a numeric field"},
		{"unknown sort role", "views", Numeric, false, "hot", "unknown sort role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fieldName, tt.fieldType, tt.searchable, tt.sortRole)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	f := Reconstruct("id", Type("bogus"), true, "hot")
	if f.Name() != "id" {
		t.Errorf("expected name preserved, got %q", f.Name())
	}
	if f.FieldType() != Type("bogus") {
		t.Errorf("expected type preserved, got %q", f.FieldType())
	}
}
