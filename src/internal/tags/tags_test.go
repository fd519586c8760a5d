package tags

import "testing"

func TestNormalizeDedupesAndDenies(t *testing.T) {
	got := Normalize("Fantasy", "Books", " fantasy ", "Epic  Fantasy", "FANTASY", "Kindle Store", "See Top 100 in Kindle Store")
	if len(got) != 2 || got[0] != "Fantasy" || got[1] != "Epic Fantasy" {
		t.Fatalf("Normalize: got %v", got)
	}
}

func TestUnion(t *testing.T) {
	got := Union([]string{"Science Fiction"}, []string{"science fiction", "Space Opera"}, nil)
	if len(got) != 2 || got[1] != "Space Opera" {
		t.Fatalf("Union: got %v", got)
	}
	if Union() != nil {
		t.Fatalf("Union empty should be nil")
	}
}

func TestSetZeroValue(t *testing.T) {
	var s Set
	if s.Len() != 0 || s.Slice() != nil {
		t.Fatalf("zero Set should be empty")
	}
	s.Add("a", "A", "")
	if s.Len() != 1 {
		t.Fatalf("Set.Add: want 1, got %d", s.Len())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("Horror", "horror", "Thriller")
	twice := Normalize(once...)
	if len(once) != len(twice) || once[0] != twice[0] || once[1] != twice[1] {
		t.Fatalf("not idempotent: %v -> %v", once, twice)
	}
}
