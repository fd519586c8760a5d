package sources

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookmeta/src/internal/cover"
	"bookmeta/src/internal/dates"
	"bookmeta/src/internal/dom"
	"bookmeta/src/internal/imprint"
	"bookmeta/src/internal/isbn"
	"bookmeta/src/internal/names"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/series"
	"bookmeta/src/internal/stringsx"
	"bookmeta/src/internal/tags"
)

// VolumeLookup resolves a Google Books volume id to a record. It is satisfied
// by *googlebooks.Client.
type VolumeLookup interface {
	Volume(ctx context.Context, id string) (record.Record, error)
}

// GoogleBooks reads books.google.* pages and the google.com/books edition
// pages. When the page lacks a title or any ISBN and Lookup is set, the
// volumes API fills the gaps beneath the page values.
type GoogleBooks struct {
	Lookup VolumeLookup
}

func (GoogleBooks) Source() record.Source { return record.GoogleBooks }

func (GoogleBooks) Match(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if strings.HasPrefix(host, "books.google.") {
		return true
	}
	return (host == "www.google.com" || host == "google.com") && strings.HasPrefix(u.Path, "/books")
}

func (g GoogleBooks) Extract(ctx context.Context, p Page) (record.Record, bool) {
	r := runTiers(p, tier{"markup", g.fromMarkup})
	id := volumeID(p.URL)
	if r.Identifiers.Google == "" {
		r.Identifiers.Google = id
	}
	if g.Lookup != nil && id != "" && (r.Title == "" || !r.Identifiers.HasISBN()) {
		r = g.enrich(ctx, p, id, r)
	}
	return finish(p, record.GoogleBooks, r)
}

// enrich issues one volume lookup and layers its result beneath page. Any
// failure leaves page as it was.
func (g GoogleBooks) enrich(ctx context.Context, p Page, id string, page record.Record) record.Record {
	api, err := g.Lookup.Volume(ctx, id)
	if err != nil {
		p.Log.Debug().Str("stage", "enrich").Str("volume", id).Err(err).Msg("enrichment failed")
		return page
	}
	p.Log.Debug().
		Str("stage", "enrich").
		Str("volume", id).
		Str("title", api.Title).
		Int("identifiers", api.Identifiers.Count()).
		Msg("enrichment merged")
	return record.Merge(page, api)
}

var skipSegments = map[string]bool{"edition": true, "reader": true, "books": true}

// volumeID reads the catalog id from ?id= or the last meaningful path
// segment, as in /books/edition/Title/<id>.
func volumeID(u *url.URL) string {
	if id := strings.TrimSpace(u.Query().Get("id")); id != "" {
		return id
	}
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return ""
	}
	if last := segs[len(segs)-1]; !skipSegments[strings.ToLower(last)] {
		return last
	}
	if len(segs) >= 2 && !skipSegments[strings.ToLower(segs[len(segs)-2])] {
		return segs[len(segs)-2]
	}
	return ""
}

// googleFields reads both the knowledge-panel rows and the classic
// metadata table.
func googleFields(doc *goquery.Document) dom.Fields {
	f := dom.Rows(doc.Selection, ".kc7Grd", ".w8qArf", ".LrzXr")
	return append(f, dom.Rows(doc.Selection, "#metadata_content_table .metadata_row", ".metadata_label", ".metadata_value")...)
}

var reGoogleSeries = regexp.MustCompile(`(?i)^(?:book|volume)\s+\S+\s+of\s+(.+)$`)

func (GoogleBooks) fromMarkup(p Page) (record.Record, bool) {
	doc := p.Doc
	fields := googleFields(doc)
	var r record.Record

	r.Title = dom.First(doc,
		dom.Text(".UDZeY", ".booktitle .fn"),
		dom.Meta("og:title", "title"),
	)
	r.Description = sanitize.StripHTML(dom.First(doc,
		dom.Text(`[jsname="bN97Pc"]`, "#synopsistext", "#synopsis-window"),
		dom.Meta("og:description", "description"),
	))
	r.CoverImage = cover.Resolve(doc, p.URL.String(), "#summary-frontcover", ".ZPdpyd img")

	r.Authors = names.Unique(dom.Texts(doc.Selection, ".KJcZOe .aIX766, .bookinfo_sectionwrap a.secondary")...)
	if len(r.Authors) == 0 {
		r.Authors = names.Unique(names.Split(fields.Get("authors", "author"))...)
	}

	r.Identifiers.ISBN10 = dom.FirstValid(doc, isbn.ISBN10, fields.Producer("isbn 10"))
	r.Identifiers.ISBN13 = dom.FirstValid(doc, isbn.ISBN13, fields.Producer("isbn 13"))
	if !r.Identifiers.HasISBN() {
		r.Identifiers.ISBN10, r.Identifiers.ISBN13 = isbn.Find(fields.Get("isbn"))
	}

	r.PublishDate = dates.Normalize(fields.Get("published", "publication date"))
	r.PageCount = stringsx.Count(fields.Get("length", "print length", "pages"))
	imprint.Parse(fields.Get("publisher")).Fill(&r.Publisher, &r.PublishDate, &r.PageCount)

	r.Series = googleSeries(doc)
	r.Tags = googleSubjects(doc)
	return r, !r.IsZero()
}

// googleSeries reads "Book 1 of Riftwar Saga Series" style links.
func googleSeries(doc *goquery.Document) *record.Series {
	var out *record.Series
	doc.Find("#metadata_content_table a.primary, .kc7Grd a.primary").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := stringsx.Clean(s.Text())
		if reGoogleSeries.MatchString(text) {
			out = record.NewSeries(series.Parse(text))
			return false
		}
		if strings.HasSuffix(strings.ToLower(text), "series") {
			out = record.NewSeries(text, "")
			return false
		}
		return true
	})
	return out
}

// googleSubjects reads the subjects row, preferring its links over the
// "Fantasy › Epic" text form.
func googleSubjects(doc *goquery.Document) []string {
	var out []string
	doc.Find(".kc7Grd, #metadata_content_table .metadata_row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := dom.NormalizeLabel(row.Find(".w8qArf, .metadata_label").First().Text())
		if !strings.Contains(label, "subject") {
			return true
		}
		value := row.Find(".LrzXr, .metadata_value").First()
		items := dom.Texts(value, "a")
		if len(items) == 0 {
			items = stringsx.SplitList(value.Text(), "›", ">")
		}
		out = tags.Normalize(items...)
		return false
	})
	return out
}
