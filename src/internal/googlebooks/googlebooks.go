// Package googlebooks reads a single volume from the public Google Books API.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bookmeta/src/internal/dates"
	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/isbn"
	"bookmeta/src/internal/names"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/series"
	"bookmeta/src/internal/stringsx"
	"bookmeta/src/internal/tags"
)

// DefaultBaseURL is the volumes endpoint root.
const DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// ErrNoID is returned when Volume is called without a volume id.
var ErrNoID = errors.New("googlebooks: volume id is required")

// Client fetches volumes. The zero value uses a default HTTP client and the
// public endpoint.
type Client struct {
	HTTP    httpx.Doer
	BaseURL string
}

// New returns a Client using doer for transport.
func New(doer httpx.Doer) *Client { return &Client{HTTP: doer} }

type volumeResp struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string            `json:"title"`
	Subtitle            string            `json:"subtitle"`
	Authors             []string          `json:"authors"`
	Publisher           string            `json:"publisher"`
	PublishedDate       string            `json:"publishedDate"`
	Description         string            `json:"description"`
	PageCount           int               `json:"pageCount"`
	Categories          []string          `json:"categories"`
	IndustryIdentifiers []identifier      `json:"industryIdentifiers"`
	ImageLinks          map[string]string `json:"imageLinks"`
	SeriesInfo          *struct {
		BookDisplayNumber string `json:"bookDisplayNumber"`
	} `json:"seriesInfo"`
}

type identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// imageSizes lists imageLinks keys from largest to smallest.
var imageSizes = []string{"extraLarge", "large", "medium", "small", "thumbnail", "smallThumbnail"}

// Volume fetches /volumes/{id} and maps it to a partial record. Fields the API
// omits stay empty; unknown fields are ignored.
func (c *Client) Volume(ctx context.Context, id string) (record.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return record.Record{}, ErrNoID
	}
	req, err := c.buildRequest(ctx, id)
	if err != nil {
		return record.Record{}, err
	}
	resp, err := c.doer().Do(req)
	if err != nil {
		return record.Record{}, fmt.Errorf("googlebooks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return record.Record{}, httpx.StatusError("googlebooks", resp)
	}
	var v volumeResp
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return record.Record{}, fmt.Errorf("googlebooks: decode: %w", err)
	}
	return mapVolume(v, id), nil
}

func (c *Client) doer() httpx.Doer {
	if c.HTTP != nil {
		return c.HTTP
	}
	return httpx.NewClient(0)
}

func (c *Client) buildRequest(ctx context.Context, id string) (*http.Request, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("googlebooks: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	httpx.SetUA(req)
	return req, nil
}

func mapVolume(v volumeResp, id string) record.Record {
	vi := v.VolumeInfo
	r := record.Record{
		Source:      record.GoogleBooks,
		Title:       sanitize.CleanString(vi.Title, 512),
		Subtitle:    sanitize.CleanString(vi.Subtitle, 512),
		Authors:     names.List(vi.Authors...),
		Publisher:   sanitize.CleanString(vi.Publisher, 256),
		PublishDate: dates.Normalize(vi.PublishedDate),
		Description: sanitize.StripHTML(vi.Description),
		CoverImage:  pickImage(vi.ImageLinks),
		Tags:        tags.Normalize(vi.Categories...),
	}
	r.Identifiers.Google = stringsx.FirstNonEmpty(v.ID, id)
	for _, ident := range vi.IndustryIdentifiers {
		switch strings.ToUpper(ident.Type) {
		case "ISBN_13":
			if s, ok := isbn.ISBN13(ident.Identifier); ok && r.Identifiers.ISBN13 == "" {
				r.Identifiers.ISBN13 = s
			}
		case "ISBN_10":
			if s, ok := isbn.ISBN10(ident.Identifier); ok && r.Identifiers.ISBN10 == "" {
				r.Identifiers.ISBN10 = s
			}
		}
	}
	if vi.PageCount > 0 {
		n := vi.PageCount
		r.PageCount = &n
	}
	if vi.SeriesInfo != nil {
		if num, ok := series.Number(vi.SeriesInfo.BookDisplayNumber); ok {
			r.Series = record.NewSeries("", num)
		}
	}
	return r
}

// pickImage returns the largest image link, upgraded to https.
func pickImage(links map[string]string) string {
	for _, size := range imageSizes {
		u := strings.TrimSpace(links[size])
		if u == "" {
			continue
		}
		if strings.HasPrefix(u, "http://") {
			u = "https://" + strings.TrimPrefix(u, "http://")
		}
		if clean := sanitize.CleanURL(u); clean != "" {
			return clean
		}
	}
	return ""
}
