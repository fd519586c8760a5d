package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bookmeta/src/internal/record"
)

func TestWriteAndReadAll(t *testing.T) {
	dir := t.TempDir()
	pages := 320
	r1 := record.Record{
		Source:      record.Amazon,
		SourceURL:   "https://www.amazon.com/dp/B0SAMPLE01",
		Title:       "Sample Book",
		Authors:     record.Names{"Author One"},
		PublishDate: "2020-01-01",
		PageCount:   &pages,
		Identifiers: record.Identifiers{ASIN: "B0SAMPLE01"},
		Series:      &record.Series{Name: "The Saga", Number: "2"},
		Tags:        []string{"Fantasy"},
	}
	r2 := record.Record{Source: record.Goodreads, Title: "Other"}

	p1, err := Write(dir, r1)
	if err != nil {
		t.Fatalf("write1: %v", err)
	}
	if want := filepath.Join(dir, "amazon", "sample-book-2020.yaml"); p1 != want {
		t.Fatalf("path: got %s want %s", p1, want)
	}
	if _, err := Write(dir, r2); err != nil {
		t.Fatalf("write2: %v", err)
	}

	list, err := ReadAll(dir)
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records got %d", len(list))
	}
	got := list[0]
	if got.Title != "Sample Book" || got.Identifiers.ASIN != "B0SAMPLE01" || got.PageCount == nil || *got.PageCount != 320 {
		t.Fatalf("round trip: %+v", got)
	}
	if got.Series == nil || got.Series.Number != "2" || len(got.Authors) != 1 {
		t.Fatalf("round trip series/authors: %+v", got)
	}
	if list[1].Source != record.Goodreads {
		t.Fatalf("second record: %+v", list[1])
	}
}

func TestWriteRejectsUntitled(t *testing.T) {
	if _, err := Write(t.TempDir(), record.Record{Source: record.Audible}); !errors.Is(err, record.ErrNoTitle) {
		t.Fatalf("expected ErrNoTitle, got %v", err)
	}
}

func TestReadAllMissingDir(t *testing.T) {
	list, err := ReadAll(filepath.Join(t.TempDir(), "absent"))
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty archive, got %v %v", list, err)
	}
}

func TestReadAllInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("title: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadAll(dir); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestUnknownSourceSegment(t *testing.T) {
	if got := Path("/a", record.Record{Title: "X"}); got != filepath.Join("/a", "other", "x.yaml") {
		t.Fatalf("path: %s", got)
	}
}
