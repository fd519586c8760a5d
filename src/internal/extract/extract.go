// Package extract turns a document and its address into a canonical record.
//
// The only outcomes visible to a caller are a record, no match, or
// ErrInvalidAddress when the address cannot be used at all. Payload and
// enrichment failures are absorbed by the strategies and only logged.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sources"
)

// ErrInvalidAddress means the page address is not an absolute http(s) URL.
var ErrInvalidAddress = errors.New("extract: invalid address")

// Options configures one extraction call. The zero value uses the default
// registry without enrichment and logs nothing.
type Options struct {
	Registry sources.Registry
	Log      zerolog.Logger
}

func (o Options) registry() sources.Registry {
	if o.Registry == nil {
		return sources.Default(nil)
	}
	return o.Registry
}

// ParseAddress validates raw as an absolute http or https URL.
func ParseAddress(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	return u, nil
}

// Match returns the strategy that would handle raw.
func Match(raw string, opts Options) (sources.Strategy, bool, error) {
	u, err := ParseAddress(raw)
	if err != nil {
		return nil, false, err
	}
	s, ok := opts.registry().Find(u)
	return s, ok, nil
}

// Document runs the matching strategy over doc. ok is false when no strategy
// recognizes the address or the strategy finds no title.
func Document(ctx context.Context, doc *goquery.Document, raw string, opts Options) (record.Record, bool, error) {
	u, err := ParseAddress(raw)
	if err != nil {
		return record.Record{}, false, err
	}
	log := opts.Log.With().Str("trace", uuid.NewString()).Logger()
	s, ok := opts.registry().Find(u)
	if !ok {
		log.Debug().Str("stage", "match").Str("host", u.Hostname()).Msg("no strategy for address")
		return record.Record{}, false, nil
	}
	log = log.With().Str("source", string(s.Source())).Logger()
	log.Debug().Str("stage", "match").Str("url", u.String()).Msg("strategy selected")
	if doc == nil {
		return record.Record{}, false, nil
	}
	r, ok := s.Extract(ctx, sources.Page{Doc: doc, URL: u, Log: log})
	if !ok {
		return record.Record{}, false, nil
	}
	return r, true, nil
}
