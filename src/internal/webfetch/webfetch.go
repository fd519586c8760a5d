// Package webfetch loads pages into documents, either over HTTP or from a
// saved HTML file.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"bookmeta/src/internal/httpx"
)

// MaxBodyBytes caps how much of a response body is parsed.
const MaxBodyBytes = 8 << 20

// Fetcher retrieves pages. Requests share one rate limiter so a batch of
// addresses is spread out; a nil Limiter disables throttling.
type Fetcher struct {
	HTTP    httpx.Doer
	Limiter *rate.Limiter
}

// New returns a Fetcher allowing rps requests per second with a burst of one.
// rps <= 0 disables throttling.
func New(doer httpx.Doer, rps float64) *Fetcher {
	f := &Fetcher{HTTP: doer}
	if rps > 0 {
		f.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return f
}

// Fetch GETs rawURL with browser-like headers and parses the body, decoding
// it to UTF-8 according to the Content-Type header or the document's meta
// charset.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("webfetch: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(rawURL), nil)
	if err != nil {
		return nil, fmt.Errorf("webfetch: %w", err)
	}
	httpx.SetBrowserHeaders(req)
	doer := f.HTTP
	if doer == nil {
		doer = httpx.NewClient(0)
	}
	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webfetch: %w", err)
	}
	defer resp.Body.Close()
	if !httpx.OK(resp) {
		return nil, httpx.StatusError("webfetch", resp)
	}
	return Parse(io.LimitReader(resp.Body, MaxBodyBytes), resp.Header.Get("Content-Type"))
}

// LoadFile parses a saved page. The charset is sniffed from the content.
func LoadFile(path string) (*goquery.Document, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(io.LimitReader(fh, MaxBodyBytes), "text/html")
}

// Parse decodes r to UTF-8 and builds a document from it.
func Parse(r io.Reader, contentType string) (*goquery.Document, error) {
	utf8, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("webfetch: charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(utf8)
	if err != nil {
		return nil, fmt.Errorf("webfetch: parse: %w", err)
	}
	return doc, nil
}
