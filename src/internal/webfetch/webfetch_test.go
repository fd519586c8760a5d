package webfetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestFetchSendsBrowserHeadersAndParses(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><body><h1 id="t">Hello</h1></body></html>`)
	}))
	defer srv.Close()

	doc, err := New(srv.Client(), 0).Fetch(context.Background(), srv.URL+"/book")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.Find("#t").Text(); got != "Hello" {
		t.Fatalf("title: %q", got)
	}
	if !strings.Contains(gotUA, "Chrome") || !strings.Contains(gotAccept, "text/html") {
		t.Fatalf("headers: ua=%q accept=%q", gotUA, gotAccept)
	}
}

func TestFetchDecodesLatin1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><body><p>Caf\xe9</p></body></html>"))
	}))
	defer srv.Close()

	doc, err := New(srv.Client(), 0).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.Find("p").Text(); got != "Café" {
		t.Fatalf("decoded text: %q", got)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.Client(), 0).Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "webfetch: http 503: blocked") {
		t.Fatalf("expected status error, got %v", err)
	}
}

type failingDoer struct{ err error }

func (f failingDoer) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestFetchTransportError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := New(failingDoer{boom}, 0).Fetch(context.Background(), "https://example.com"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestFetchHonoursLimiterCancellation(t *testing.T) {
	f := &Fetcher{HTTP: failingDoer{errors.New("unreachable")}, Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)}
	f.Limiter.Allow()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, "https://example.com"); err == nil || !strings.Contains(err.Error(), "webfetch:") {
		t.Fatalf("expected limiter error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(`<html><head><meta charset="utf-8"></head><body><span id="productTitle">Saved</span></body></html>`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := doc.Find("#productTitle").Text(); got != "Saved" {
		t.Fatalf("text: %q", got)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
