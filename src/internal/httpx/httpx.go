package httpx

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChromeUA is a consistent, modern desktop Chrome User-Agent for all outbound HTTP.
const ChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// DefaultTimeout bounds every request made with NewClient(0).
const DefaultTimeout = 12 * time.Second

// NewClient returns an *http.Client with the given timeout (DefaultTimeout
// when zero).
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// SetUA sets the ChromeUA header on the request.
func SetUA(req *http.Request) {
	if req != nil {
		req.Header.Set("User-Agent", ChromeUA)
	}
}

// SetBrowserHeaders makes a page request look like a desktop browser
// navigation. Store pages serve reduced markup to unknown clients.
func SetBrowserHeaders(req *http.Request) {
	if req == nil {
		return
	}
	SetUA(req)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// StatusError reads a bounded prefix of a non-2xx body into an error of the
// form "<provider>: http <code>: <body>". The body is not closed.
func StatusError(provider string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: http %d: %s", provider, resp.StatusCode, string(b))
}

// OK reports whether resp carries a 2xx status.
func OK(resp *http.Response) bool {
	return resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300
}
