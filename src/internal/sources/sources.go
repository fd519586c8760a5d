// Package sources holds the per-provider extraction strategies and the
// ordered registry that dispatches a page address to one of them.
package sources

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"bookmeta/src/internal/record"
)

// Page is one document handed to a strategy together with its address.
type Page struct {
	Doc *goquery.Document
	URL *url.URL
	Log zerolog.Logger
}

// Strategy recognizes one provider's pages and extracts records from them.
// Implementations hold no per-call state and are safe for concurrent use.
type Strategy interface {
	Source() record.Source
	Match(u *url.URL) bool
	// Extract returns the record for the page, or false when no title can be
	// found by any tier.
	Extract(ctx context.Context, p Page) (record.Record, bool)
}

// Registry is an ordered list of strategies. The first match wins.
type Registry []Strategy

// Default returns goodreads, amazon, audible and google-books in that order.
// lookup backs the google-books enrichment tier and may be nil.
func Default(lookup VolumeLookup) Registry {
	return Registry{
		Goodreads{},
		Amazon{},
		Audible{},
		GoogleBooks{Lookup: lookup},
	}
}

// Find returns the first strategy whose matcher accepts u.
func (r Registry) Find(u *url.URL) (Strategy, bool) {
	if u == nil {
		return nil, false
	}
	for _, s := range r {
		if s.Match(u) {
			return s, true
		}
	}
	return nil, false
}

// tier is one extraction attempt. found reports that the tier's source data
// existed, even if it yielded no title.
type tier struct {
	stage string
	run   func(p Page) (rec record.Record, found bool)
}

// runTiers evaluates tiers in order, layering each result beneath what the
// earlier tiers produced. It stops as soon as a title is known.
func runTiers(p Page, tiers ...tier) record.Record {
	var acc record.Record
	for _, t := range tiers {
		rec, found := t.run(p)
		p.Log.Debug().
			Str("stage", t.stage).
			Bool("found", found).
			Str("title", rec.Title).
			Int("identifiers", rec.Identifiers.Count()).
			Msg("tier evaluated")
		if found {
			acc = record.Merge(acc, rec)
		}
		if acc.Title != "" {
			break
		}
	}
	return acc
}

// finish stamps provenance and applies the title rule.
func finish(p Page, src record.Source, r record.Record) (record.Record, bool) {
	r.Source = src
	r.SourceURL = p.URL.String()
	if err := r.Validate(); err != nil {
		p.Log.Debug().Str("stage", "done").Err(err).Msg("no match")
		return record.Record{}, false
	}
	p.Log.Debug().
		Str("stage", "done").
		Str("title", r.Title).
		Int("authors", len(r.Authors)).
		Int("identifiers", r.Identifiers.Count()).
		Msg("record extracted")
	return r, true
}

// hostHas reports whether the lower-cased host contains fragment.
func hostHas(u *url.URL, fragment string) bool {
	return strings.Contains(strings.ToLower(u.Hostname()), fragment)
}

var reASINPath = regexp.MustCompile(`(?i)/(?:dp|gp/product|gp/aw/d|product|pd(?:/[^/]+)?)/([A-Z0-9]{10})(?:[/?]|$)`)

// asinFromPath finds a ten character product id in Amazon and Audible paths
// such as /dp/B00ABC1234 or /pd/Some-Title/B00ABC1234.
func asinFromPath(u *url.URL) string {
	if m := reASINPath.FindStringSubmatch(u.EscapedPath()); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}
