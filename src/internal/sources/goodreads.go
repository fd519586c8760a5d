package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

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

// Goodreads reads book pages from goodreads.com. The Next.js state blob is
// preferred; JSON-LD fills gaps beneath it; legacy and current markup are the
// fallback.
type Goodreads struct{}

func (Goodreads) Source() record.Source { return record.Goodreads }

func (Goodreads) Match(u *url.URL) bool { return hostHas(u, "goodreads.com") }

func (g Goodreads) Extract(_ context.Context, p Page) (record.Record, bool) {
	r := runTiers(p,
		tier{"payload", g.fromPayload},
		tier{"markup", g.fromMarkup},
	)
	if r.Identifiers.Goodreads == "" {
		r.Identifiers.Goodreads = goodreadsID(p.URL)
	}
	return finish(p, record.Goodreads, r)
}

var reGoodreadsID = regexp.MustCompile(`/(?:book|work)/show/(\d+)`)

func goodreadsID(u *url.URL) string {
	if m := reGoodreadsID.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

func (g Goodreads) fromPayload(p Page) (record.Record, bool) {
	next, okNext := g.fromNextData(p)
	ld, okLD := g.fromLD(p)
	switch {
	case okNext && okLD:
		return record.Merge(next, ld), true
	case okNext:
		return next, true
	default:
		return ld, okLD
	}
}

// fromNextData maps the Apollo cache in script#__NEXT_DATA__.
func (Goodreads) fromNextData(p Page) (record.Record, bool) {
	raw := strings.TrimSpace(p.Doc.Find("script#__NEXT_DATA__").First().Text())
	if raw == "" {
		return record.Record{}, false
	}
	var envelope struct {
		Props struct {
			PageProps struct {
				ApolloState json.RawMessage `json:"apolloState"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		p.Log.Debug().Err(err).Msg("payload: malformed __NEXT_DATA__ ignored")
		return record.Record{}, false
	}
	if len(envelope.Props.PageProps.ApolloState) == 0 {
		return record.Record{}, false
	}
	graph, err := payload.DecodeGraph(envelope.Props.PageProps.ApolloState)
	if err != nil {
		p.Log.Debug().Err(err).Msg("payload: malformed apollo state ignored")
		return record.Record{}, false
	}
	book := findBookNode(graph, goodreadsID(p.URL))
	if book == nil {
		return record.Record{}, false
	}

	var r record.Record
	r.Title = stringsx.Clean(stringsx.FirstNonEmpty(payload.Str(book, "titleComplete"), payload.Str(book, "title")))
	r.Authors = apolloAuthors(graph, book)
	r.Description = sanitize.StripHTML(stringsx.FirstNonEmpty(
		payload.Str(book, `description({"stripped":true})`),
		payload.Str(book, "description"),
	))
	r.CoverImage = cover.Normalize(payload.Str(book, "imageUrl"), p.URL.String())

	details := payload.Get(book, "details")
	if asin, ok := isbn.ASIN(payload.Str(details, "asin")); ok {
		r.Identifiers.ASIN = asin
	}
	if v, ok := isbn.ISBN10(payload.Str(details, "isbn")); ok {
		r.Identifiers.ISBN10 = v
	}
	if v, ok := isbn.ISBN13(payload.Str(details, "isbn13")); ok {
		r.Identifiers.ISBN13 = v
	}
	r.Identifiers.Goodreads = stringsx.FirstNonEmpty(goodreadsID(p.URL), payload.Str(book, "legacyId"))
	r.Publisher = stringsx.Clean(payload.Str(details, "publisher"))
	if ms, ok := payload.Int(payload.Get(details, "publicationTime")); ok {
		r.PublishDate = dates.FromUnixMillis(ms)
	}
	if n, ok := payload.Int(payload.Get(details, "numPages")); ok && n > 0 {
		pages := int(n)
		r.PageCount = &pages
	}
	r.Series = apolloSeries(graph, book)

	var ts tags.Set
	for _, entry := range payload.List(payload.Get(book, "bookGenres")) {
		ts.Add(payload.Str(entry, "genre", "name"))
	}
	r.Tags = ts.Slice()
	return r, true
}

// findBookNode picks the Book node whose legacyId matches the address, else
// the first Book node in document order.
func findBookNode(g *payload.Graph, id string) map[string]any {
	books := g.WithPrefix("Book:")
	if len(books) == 0 {
		return nil
	}
	if id != "" {
		for _, b := range books {
			if payload.Str(b, "legacyId") == id {
				return b
			}
		}
	}
	return books[0]
}

func apolloAuthors(g *payload.Graph, book map[string]any) []string {
	edges := []any{payload.Get(book, "primaryContributorEdge")}
	edges = append(edges, payload.List(payload.Get(book, "secondaryContributorEdges"))...)
	var raw []string
	for _, e := range edges {
		if e == nil || !strings.Contains(strings.ToLower(payload.Str(e, "role")), "author") {
			continue
		}
		if c := g.Resolve(payload.Get(e, "node")); c != nil {
			raw = append(raw, payload.Str(c, "name"))
		}
	}
	return names.List(raw...)
}

func apolloSeries(g *payload.Graph, book map[string]any) *record.Series {
	entries := payload.List(payload.Get(book, "bookSeries"))
	if len(entries) == 0 {
		return nil
	}
	first := entries[0]
	name := stringsx.Clean(payload.Str(g.Resolve(payload.Get(first, "series")), "title"))
	number, _ := series.Number(payload.Str(first, "userPosition"))
	return record.NewSeries(name, number)
}

// fromLD maps a schema.org Book node.
func (Goodreads) fromLD(p Page) (record.Record, bool) {
	node := payload.FindLD(p.Doc, p.Log, "Book")
	if node == nil {
		return record.Record{}, false
	}
	return mapLDBook(node, p.URL.String()), true
}

var (
	reGRPublished = regexp.MustCompile(`(?i)^(?:first\s+)?published\s+(.+?)(?:\s+by\s+(.+))?$`)
	reGRSeriesNum = regexp.MustCompile(`#\s*(\d+(?:\.\d+)?)`)
)

// fromMarkup covers both the legacy page and the current React page.
func (Goodreads) fromMarkup(p Page) (record.Record, bool) {
	doc := p.Doc
	var r record.Record
	r.Title = dom.First(doc,
		dom.Text("#bookTitle", `[data-testid="bookTitle"]`, "h1#bookTitle span", `h1[data-testid="bookTitle"]`),
		dom.Meta("og:title"),
	)
	r.Authors = names.List(dom.Texts(doc.Selection,
		`#bookAuthors span[itemprop="name"], a.authorName span, .BookPageMetadataSection__contributor a[data-testid="name"]`)...)
	r.Description = sanitize.StripHTML(dom.First(doc,
		dom.Text(`#description span[style*="display"]`, "#description span", `[data-testid="description"]`),
		dom.Meta("og:description"),
	))
	r.CoverImage = cover.Resolve(doc, p.URL.String(), "#coverImage", `[data-testid="coverImage"] img`, ".BookCover__image img")
	r.PageCount = stringsx.Count(dom.First(doc,
		dom.Text(`[itemprop="numberOfPages"]`, `[data-testid="pagesFormat"]`),
	))

	for _, line := range dom.Texts(doc.Selection, `#details div.row, [data-testid="publicationInfo"]`) {
		if m := reGRPublished.FindStringSubmatch(line); m != nil {
			r.PublishDate = dates.Normalize(m[1])
			r.Publisher = stringsx.Clean(m[2])
			break
		}
	}

	box := doc.Find("#bookDataBox")
	r.Identifiers.ISBN10, r.Identifiers.ISBN13 = isbn.Find(strings.Join(dom.Texts(box, `span[itemprop="isbn"], span[itemprop="isbn13"], .infoBoxRowItem`), " "))

	seriesText := dom.First(doc, dom.Text("#bookSeries", "h2#bookSeries", `h3.Text__italic a[href*="/series/"]`))
	if seriesText != "" {
		name := dom.First(doc, dom.Text("#bookSeries a"))
		if name == "" {
			name, _ = series.Parse(seriesText)
		} else {
			name, _ = series.Parse(name)
		}
		var number string
		if m := reGRSeriesNum.FindStringSubmatch(seriesText); m != nil {
			number, _ = series.Position(m[1])
		}
		r.Series = record.NewSeries(name, number)
	}

	r.Tags = tags.Normalize(dom.Texts(doc.Selection,
		`.left a.bookPageGenreLink, [data-testid="genresList"] .Button__labelItem`)...)
	return r, !r.IsZero()
}

// mapLDBook maps the schema.org Book fields shared by several providers.
func mapLDBook(node map[string]any, base string) record.Record {
	var r record.Record
	r.Title = stringsx.Clean(payload.Str(node, "name"))
	r.Authors = names.List(payload.Names(node["author"])...)
	r.Narrators = names.List(payload.Names(node["readBy"])...)
	r.Description = sanitize.StripHTML(payload.Str(node, "description"))
	r.CoverImage = cover.Normalize(ldImage(node["image"]), base)
	for _, v := range payload.List(node["isbn"]) {
		ten, thirteen := isbn.Classify(payload.String(v))
		if r.Identifiers.ISBN10 == "" {
			r.Identifiers.ISBN10 = ten
		}
		if r.Identifiers.ISBN13 == "" {
			r.Identifiers.ISBN13 = thirteen
		}
	}
	r.Publisher = stringsx.Clean(payload.Str(node, "publisher"))
	r.PublishDate = dates.Normalize(payload.Str(node, "datePublished"))
	if n, ok := payload.Int(node["numberOfPages"]); ok && n > 0 {
		pages := int(n)
		r.PageCount = &pages
	}
	if part := payload.Object(node["isPartOf"]); part != nil {
		number, _ := series.Number(payload.Str(node, "position"))
		r.Series = record.NewSeries(stringsx.Clean(payload.Str(part, "name")), number)
	}
	r.Tags = tags.Normalize(payload.Names(node["genre"])...)
	return r
}

// ldImage accepts "url", ["url", ...] and {"url": "..."} shapes.
func ldImage(v any) string {
	for _, it := range payload.List(v) {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
		if u := payload.Str(it, "url"); u != "" {
			return u
		}
		if u := payload.Str(it, "contentUrl"); u != "" {
			return u
		}
	}
	return ""
}
