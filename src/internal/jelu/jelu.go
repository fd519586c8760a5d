// Package jelu submits extracted records to a Jelu reading-tracker server.
package jelu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/tags"
)

var (
	// ErrNotConfigured is returned when no server URL is set.
	ErrNotConfigured = errors.New("jelu: base URL not configured")
	// ErrNoAuth is returned when neither a token nor a username and password
	// are set.
	ErrNoAuth = errors.New("jelu: no valid authentication configured")
)

// Client posts books to one Jelu server. Token auth wins over basic auth.
type Client struct {
	HTTP     httpx.Doer
	BaseURL  string
	Token    string
	Username string
	Password string
	// Now stamps finish events without an explicit date. Defaults to
	// time.Now.
	Now func() time.Time
}

// Submission is one record plus the user's choices for it.
type Submission struct {
	Record       record.Record
	Tags         []string
	AddToLibrary bool
	Finished     bool
	FinishedDate string
}

type nameDTO struct {
	Name string `json:"name"`
}

type seriesDTO struct {
	SeriesID       *string  `json:"seriesId"`
	Name           string   `json:"name"`
	NumberInSeries *float64 `json:"numberInSeries,omitempty"`
}

type bookRequest struct {
	Title         string      `json:"title"`
	ISBN10        string      `json:"isbn10,omitempty"`
	ISBN13        string      `json:"isbn13,omitempty"`
	Summary       string      `json:"summary,omitempty"`
	Image         string      `json:"image,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	PageCount     *int        `json:"pageCount,omitempty"`
	PublishedDate string      `json:"publishedDate,omitempty"`
	Authors       []nameDTO   `json:"authors,omitempty"`
	Narrators     []nameDTO   `json:"narrators,omitempty"`
	Tags          []nameDTO   `json:"tags,omitempty"`
	Series        []seriesDTO `json:"series,omitempty"`
	GoogleID      string      `json:"googleId,omitempty"`
	AmazonID      string      `json:"amazonId,omitempty"`
	GoodreadsID   string      `json:"goodreadsId,omitempty"`
}

type userBookRequest struct {
	Book                 bookRequest `json:"book"`
	Owned                bool        `json:"owned"`
	ToRead               bool        `json:"toRead"`
	Borrowed             bool        `json:"borrowed"`
	PercentRead          *int        `json:"percentRead,omitempty"`
	LastReadingEvent     string      `json:"lastReadingEvent,omitempty"`
	LastReadingEventDate string      `json:"lastReadingEventDate,omitempty"`
}

// Submit creates the book, either standalone or as an owned library entry.
func (c *Client) Submit(ctx context.Context, s Submission) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return ErrNotConfigured
	}
	if err := s.Record.Validate(); err != nil {
		return fmt.Errorf("jelu: %w", err)
	}
	book := newBookRequest(s.Record, s.Tags)
	if !s.AddToLibrary {
		return c.post(ctx, base+"/api/v1/books", book)
	}
	ub := userBookRequest{Book: book, Owned: true, ToRead: !s.Finished}
	if s.Finished {
		pct := 100
		ub.PercentRead = &pct
		ub.LastReadingEvent = "FINISHED"
		ub.LastReadingEventDate = c.finishedAt(s.FinishedDate)
	}
	return c.post(ctx, base+"/api/v1/userbooks", ub)
}

// newBookRequest maps a record to the server's book shape. Names and tags are
// trimmed and deduplicated; extra tags are unioned with the record's.
func newBookRequest(r record.Record, extraTags []string) bookRequest {
	req := bookRequest{
		Title:         strings.TrimSpace(r.Title),
		ISBN10:        r.Identifiers.ISBN10,
		ISBN13:        r.Identifiers.ISBN13,
		Summary:       r.Description,
		Image:         r.CoverImage,
		Publisher:     r.Publisher,
		PageCount:     r.PageCount,
		PublishedDate: r.PublishDate,
		Authors:       nameDTOs(r.Authors),
		Narrators:     nameDTOs(r.Narrators),
		Tags:          nameDTOs(tags.Union(r.Tags, extraTags)),
		GoogleID:      r.Identifiers.Google,
		AmazonID:      r.Identifiers.ASIN,
		GoodreadsID:   r.Identifiers.Goodreads,
	}
	if r.Series != nil && strings.TrimSpace(r.Series.Name) != "" {
		req.Series = []seriesDTO{{Name: strings.TrimSpace(r.Series.Name), NumberInSeries: seriesNumber(r.Series.Number)}}
	}
	return req
}

func nameDTOs(names []string) []nameDTO {
	seen := map[string]bool{}
	var out []nameDTO
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, nameDTO{Name: n})
	}
	return out
}

// seriesNumber keeps digits and dots of a positional string ("#2.5" -> 2.5).
func seriesNumber(s string) *float64 {
	kept := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if kept == "" {
		return nil
	}
	f, err := strconv.ParseFloat(kept, 64)
	if err != nil {
		return nil
	}
	return &f
}

// finishedAt renders a finish date as RFC 3339. Unparseable or empty input
// falls back to the current time.
func (c *Client) finishedAt(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().UTC().Format(time.RFC3339)
}

func (c *Client) authorize(req *http.Request) error {
	switch {
	case c.Token != "":
		req.Header.Set("X-Auth-Token", c.Token)
	case c.Username != "" && c.Password != "":
		req.SetBasicAuth(c.Username, c.Password)
	default:
		return ErrNoAuth
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("jelu: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("jelu: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	doer := c.HTTP
	if doer == nil {
		doer = httpx.NewClient(0)
	}
	resp, err := doer.Do(req)
	if err != nil {
		return fmt.Errorf("jelu: %w", err)
	}
	defer resp.Body.Close()
	if !httpx.OK(resp) {
		return httpx.StatusError("jelu", resp)
	}
	return nil
}
