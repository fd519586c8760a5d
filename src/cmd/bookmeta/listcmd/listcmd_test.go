package listcmd

import (
	"bytes"
	"testing"

	"bookmeta/src/internal/record"
	"bookmeta/src/internal/store"
)

func TestListArchivedRecords(t *testing.T) {
	dir := t.TempDir()
	for _, r := range []record.Record{
		{Source: record.Amazon, Title: "Sample Book", Identifiers: record.Identifiers{ASIN: "B0SAMPLE01"}},
		{Source: record.Goodreads, Title: "Other", Identifiers: record.Identifiers{ISBN13: "9781234567897", Goodreads: "42"}},
		{Source: record.Audible, Title: "Heard It"},
	} {
		if _, err := store.Write(dir, r); err != nil {
			t.Fatal(err)
		}
	}
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{dir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "amazon\tSample Book\tB0SAMPLE01\n" +
		"audible\tHeard It\t-\n" +
		"goodreads\tOther\t9781234567897\n"
	if out.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
	}

	out.Reset()
	cmd = New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{dir, "--source", "Goodreads"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute filtered: %v", err)
	}
	if out.String() != "goodreads\tOther\t9781234567897\n" {
		t.Fatalf("filtered: %q", out.String())
	}
}

func TestListEmptyArchive(t *testing.T) {
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{t.TempDir()})
	if err := cmd.Execute(); err != nil || out.Len() != 0 {
		t.Fatalf("expected no output, got %q %v", out.String(), err)
	}
}
