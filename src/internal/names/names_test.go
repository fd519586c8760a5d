package names

import "testing"

func TestClean(t *testing.T) {
	cases := map[string]string{
		"  Jane   Doe (Author) ,": "Jane Doe",
		"by John Smith":           "John Smith",
		"Mary Major (Narrator)":   "Mary Major",
		"Plain Name":              "Plain Name",
	}
	for in, want := range cases {
		if got := Clean(in); got != want {
			t.Fatalf("Clean(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestRole(t *testing.T) {
	if got := Role("Mary Major (Narrator)"); got != "narrator" {
		t.Fatalf("Role: want narrator, got %q", got)
	}
	if got := Role("Jane Doe"); got != "" {
		t.Fatalf("Role none: got %q", got)
	}
	if !IsNarrator("Narrator") || IsNarrator("Author") {
		t.Fatalf("IsNarrator mismatch")
	}
	if !IsAuthor("") || !IsAuthor("Author, Illustrator") || IsAuthor("Translator") {
		t.Fatalf("IsAuthor mismatch")
	}
}

func TestSplit(t *testing.T) {
	got := Split("Author One, Author Two and Author Three; Author One")
	want := []string{"Author One", "Author Two", "Author Three", "Author One"}
	if len(got) != len(want) {
		t.Fatalf("Split: want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Split[%d]: want %q, got %q", i, want[i], got[i])
		}
	}
	if Split("  ") != nil {
		t.Fatalf("Split blank should be nil")
	}
}

func TestUnique(t *testing.T) {
	got := Unique("A", " A ", "", "B")
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("Unique: got %v", got)
	}
	if got := List("A", "A"); len(got) != 2 {
		t.Fatalf("List keeps repeats: got %v", got)
	}
}
