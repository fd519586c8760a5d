package sources

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookmeta/src/internal/cover"
	"bookmeta/src/internal/dates"
	"bookmeta/src/internal/dom"
	"bookmeta/src/internal/isbn"
	"bookmeta/src/internal/names"
	"bookmeta/src/internal/payload"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/series"
	"bookmeta/src/internal/stringsx"
	"bookmeta/src/internal/tags"
)

// Audible reads audiobook product pages. The metadata script blocks carry
// contributors, runtime, release date, series and categories but usually no
// title, so the markup tier normally runs beneath them.
type Audible struct{}

func (Audible) Source() record.Source { return record.Audible }

func (Audible) Match(u *url.URL) bool { return hostHas(u, "audible.") }

const audibleChips = "adbl-chip-group adbl-chip, .bc-chip-text"

func (a Audible) Extract(_ context.Context, p Page) (record.Record, bool) {
	r := runTiers(p,
		tier{"payload", a.fromPayload},
		tier{"markup", a.fromMarkup},
	)
	// Genre chips sit outside both tiers and always join the tag set.
	r.Tags = tags.Union(r.Tags, dom.Texts(p.Doc.Selection, audibleChips))
	if r.Identifiers.ASIN == "" {
		r.Identifiers.ASIN = audibleASIN(p.Doc, p.URL)
	}
	return finish(p, record.Audible, r)
}

func (a Audible) fromPayload(p Page) (record.Record, bool) {
	meta, okMeta := a.fromMetadata(p)
	var ld record.Record
	node := payload.FindLD(p.Doc, p.Log, "Audiobook", "Book", "Product")
	if node != nil {
		ld = mapLDBook(node, p.URL.String())
		if asin, ok := isbn.ASIN(payload.Str(node, "sku")); ok {
			ld.Identifiers.ASIN = asin
		}
	}
	return record.Merge(meta, ld), okMeta || node != nil
}

// fromMetadata folds every adbl-product-metadata block into one object. Keys
// from earlier blocks win.
func (Audible) fromMetadata(p Page) (record.Record, bool) {
	blocks := payload.Blocks(p.Doc, `adbl-product-metadata script[type="application/json"]`, p.Log)
	if len(blocks) == 0 {
		return record.Record{}, false
	}
	meta := map[string]any{}
	for _, b := range blocks {
		obj := payload.Object(b)
		for k, v := range obj {
			if _, ok := meta[k]; !ok {
				meta[k] = v
			}
		}
	}

	var r record.Record
	r.Title = stringsx.Clean(payload.Str(meta, "title"))
	r.Subtitle = stringsx.Clean(payload.Str(meta, "subtitle"))
	r.Authors = names.List(payload.Names(meta["authors"])...)
	r.Narrators = names.List(payload.Names(meta["narrators"])...)
	r.Publisher = stringsx.Clean(payload.Str(meta, "publisher"))
	r.PublishDate = dates.Normalize(payload.Str(meta, "releaseDate"))
	r.PageCount = stringsx.Count(payload.Str(meta, "duration"))
	if list := payload.List(meta["series"]); len(list) > 0 {
		first := list[0]
		number, _ := series.Number(payload.Str(first, "part"))
		r.Series = record.NewSeries(stringsx.Clean(payload.Str(first, "name")), number)
	}
	r.Tags = tags.Normalize(payload.Names(meta["categories"])...)
	if asin, ok := isbn.ASIN(payload.Str(meta, "asin")); ok {
		r.Identifiers.ASIN = asin
	}
	return r, true
}

func (Audible) fromMarkup(p Page) (record.Record, bool) {
	doc := p.Doc
	var r record.Record
	r.Title = dom.First(doc,
		dom.Text(`adbl-title-lockup h1[slot="title"]`, `h1[data-testid="hero-title-block__title"]`, "h1.bc-heading"),
		dom.Meta("og:title"),
	)
	r.Subtitle = dom.First(doc, dom.Text(`adbl-title-lockup [slot="subtitle"]`, "li.subtitle"))
	r.Authors = names.List(dom.Texts(doc.Selection, `li[data-testid="author-info"] a, li.authorLabel a`)...)
	r.Narrators = names.List(dom.Texts(doc.Selection, `li[data-testid="narrator-info"] a, li.narratorLabel a`)...)
	r.Description = sanitize.StripHTML(dom.First(doc,
		dom.Text(`adbl-text-block[slot="summary"]`, `[data-testid="product-details-description"]`, ".productPublisherSummary"),
		dom.Meta("og:description"),
	))
	r.CoverImage = cover.Resolve(doc, p.URL.String(),
		"adbl-product-image img", `[data-testid="hero-art"] img`, "img.bc-image-inset-border")
	r.PageCount = stringsx.Count(afterLabel(dom.First(doc,
		dom.Text(`[data-testid="runtime"] span span`, "li.runtimeLabel"))))
	r.PublishDate = dates.Normalize(afterLabel(dom.First(doc,
		dom.Text(`[data-testid="release-date"] span span`, "li.releaseDateLabel"))))
	r.Publisher = dom.First(doc, dom.Text(`[data-testid="publisher"] span span`, "li.publisherLabel a"))

	if text := afterLabel(dom.First(doc, dom.Text("li.seriesLabel"))); text != "" {
		name := dom.First(doc, dom.Text("li.seriesLabel a"))
		var number string
		// "Saga, Book 2"
		if i := strings.LastIndex(text, ","); i >= 0 {
			number, _ = series.Number(text[i+1:])
			if name == "" {
				name = stringsx.Clean(text[:i])
			}
		}
		if name == "" {
			name = text
		}
		r.Series = record.NewSeries(name, number)
	}
	r.Tags = tags.Normalize(dom.Texts(doc.Selection, "li.categoriesLabel a")...)
	return r, !r.IsZero()
}

// afterLabel drops a leading "Label:" from legacy list items.
func afterLabel(s string) string {
	if i := strings.Index(s, ":"); i >= 0 && i < 24 && !strings.ContainsAny(s[:i], "0123456789") {
		return stringsx.Clean(s[i+1:])
	}
	return s
}

func audibleASIN(doc *goquery.Document, u *url.URL) string {
	return dom.FirstValid(doc, isbn.ASIN,
		dom.Attr("[data-asin]", "data-asin"),
		dom.Const(asinFromPath(u)),
		dom.Text(`[data-testid="product-details"] li span strong`),
	)
}
