package record

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func intPtr(n int) *int { return &n }

func TestValidate(t *testing.T) {
	if err := (Record{Title: "  "}).Validate(); !errors.Is(err, ErrNoTitle) {
		t.Fatalf("Validate: want ErrNoTitle, got %v", err)
	}
	if err := (Record{Title: "Dune"}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestMergePrimaryWins(t *testing.T) {
	page := Record{
		Source:      GoogleBooks,
		Title:       "Page Title",
		Identifiers: Identifiers{Google: "abc"},
		Series:      &Series{Name: "Saga"},
	}
	enrich := Record{
		Title:       "API Title",
		Authors:     Names{"Ann Author"},
		Publisher:   "API House",
		PageCount:   intPtr(300),
		Identifiers: Identifiers{ISBN13: "9781234567890", Google: "other"},
		Series:      &Series{Name: "Other", Number: "2"},
	}
	got := Merge(page, enrich)
	if got.Title != "Page Title" {
		t.Fatalf("Merge: page title must win, got %q", got.Title)
	}
	if got.Publisher != "API House" || len(got.Authors) != 1 || *got.PageCount != 300 {
		t.Fatalf("Merge: missing fields not filled: %+v", got)
	}
	if got.Identifiers.Google != "abc" || got.Identifiers.ISBN13 != "9781234567890" {
		t.Fatalf("Merge identifiers: %+v", got.Identifiers)
	}
	if got.Series.Name != "Saga" || got.Series.Number != "2" {
		t.Fatalf("Merge series: %+v", got.Series)
	}
	if page.Series.Number != "" || page.Publisher != "" {
		t.Fatalf("Merge mutated its input")
	}
	*got.PageCount = 1
	if *enrich.PageCount != 300 {
		t.Fatalf("Merge result shares page count with fallback")
	}
}

func TestMergeFillsTitle(t *testing.T) {
	got := Merge(Record{Source: GoogleBooks}, Record{Title: "API Title"})
	if got.Title != "API Title" || got.Source != GoogleBooks {
		t.Fatalf("Merge empty title: %+v", got)
	}
}

func TestNamesUnmarshalYAML(t *testing.T) {
	var r Record
	in := "title: X\nauthors: Solo Writer\nnarrators:\n  - name: Reader One\n  - Reader Two\n"
	if err := yaml.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(r.Authors) != 1 || r.Authors[0] != "Solo Writer" {
		t.Fatalf("authors scalar: %v", r.Authors)
	}
	if len(r.Narrators) != 2 || r.Narrators[0] != "Reader One" || r.Narrators[1] != "Reader Two" {
		t.Fatalf("narrators mixed: %v", r.Narrators)
	}
}

func TestIdentifiersOmitted(t *testing.T) {
	b, err := yaml.Marshal(Record{Title: "T"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "source: \"\"\nsource_url: \"\"\ntitle: T\n" {
		t.Fatalf("unexpected yaml: %q", b)
	}
}

func TestSlug(t *testing.T) {
	if got := (Record{Title: "The Hobbit: There & Back", PublishDate: "1937-09-21"}).Slug(); got != "the-hobbit-there-back-1937" {
		t.Fatalf("Slug: got %q", got)
	}
	if got := (Record{Title: "Dune", PublishDate: "March 1965"}).Slug(); got != "dune-1965" {
		t.Fatalf("Slug partial date: got %q", got)
	}
	if got := (Record{Title: "Dune"}).Slug(); got != "dune" {
		t.Fatalf("Slug no date: got %q", got)
	}
}

func TestNewSeries(t *testing.T) {
	if NewSeries(" ", "") != nil {
		t.Fatalf("NewSeries empty should be nil")
	}
	if s := NewSeries("", "3"); s == nil || s.Number != "3" {
		t.Fatalf("NewSeries number only: %+v", s)
	}
}

func TestIsZero(t *testing.T) {
	if !(Record{}).IsZero() {
		t.Fatalf("empty record should be zero")
	}
	if (Record{Publisher: "Page Press"}).IsZero() || (Record{Identifiers: Identifiers{ISBN13: "9781234567897"}}).IsZero() {
		t.Fatalf("a single populated field makes a record non-zero")
	}
}
