package matchcmd

import (
	"bytes"
	"testing"
)

func TestMatchReportsEachAddress(t *testing.T) {
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"https://www.goodreads.com/book/show/1",
		"https://www.audible.co.uk/pd/B00TEST123",
		"https://books.google.com/books?id=x",
		"https://example.com/",
		"not a url",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "https://www.goodreads.com/book/show/1\tgoodreads\n" +
		"https://www.audible.co.uk/pd/B00TEST123\taudible\n" +
		"https://books.google.com/books?id=x\tgoogle-books\n" +
		"https://example.com/\tnot supported\n" +
		"not a url\tinvalid address\n"
	if out.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestMatchNeedsArgs(t *testing.T) {
	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected args error")
	}
}
