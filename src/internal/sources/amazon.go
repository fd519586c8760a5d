package sources

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookmeta/src/internal/cover"
	"bookmeta/src/internal/dates"
	"bookmeta/src/internal/dom"
	"bookmeta/src/internal/imprint"
	"bookmeta/src/internal/isbn"
	"bookmeta/src/internal/names"
	"bookmeta/src/internal/payload"
	"bookmeta/src/internal/record"
	"bookmeta/src/internal/sanitize"
	"bookmeta/src/internal/series"
	"bookmeta/src/internal/stringsx"
	"bookmeta/src/internal/tags"
)

// Amazon reads product detail pages on any amazon.* storefront.
type Amazon struct{}

func (Amazon) Source() record.Source { return record.Amazon }

func (Amazon) Match(u *url.URL) bool { return hostHas(u, "amazon.") }

func (a Amazon) Extract(_ context.Context, p Page) (record.Record, bool) {
	r := runTiers(p,
		tier{"payload", a.fromPayload},
		tier{"markup", a.fromMarkup},
	)
	if r.Identifiers.ASIN == "" {
		r.Identifiers.ASIN = asinFromPath(p.URL)
	}
	return finish(p, record.Amazon, r)
}

// fromPayload reads a schema.org Book or Product node when the storefront
// ships one.
func (Amazon) fromPayload(p Page) (record.Record, bool) {
	node := payload.FindLD(p.Doc, p.Log, "Book", "Product")
	if node == nil {
		return record.Record{}, false
	}
	r := mapLDBook(node, p.URL.String())
	if asin, ok := isbn.ASIN(payload.Str(node, "sku")); ok {
		r.Identifiers.ASIN = asin
	}
	return r, true
}

// rpi is one entry of the "rich product information" carousel.
type rpi struct{ label, value string }

// richInfo maps carousel attribute names to their entries.
type richInfo map[string]rpi

// Producer yields the value of the first listed attribute that has one.
func (ri richInfo) Producer(keys ...string) dom.Producer {
	return func(*goquery.Document) string {
		for _, k := range keys {
			if v := ri[k].value; v != "" {
				return v
			}
		}
		return ""
	}
}

func richProductInfo(doc *goquery.Document) richInfo {
	out := richInfo{}
	doc.Find("[data-rpi-attribute-name]").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("data-rpi-attribute-name")
		key = strings.TrimSpace(key)
		label := stringsx.Clean(s.Find(".rpi-attribute-label").First().Text())
		value := stringsx.Clean(s.Find(".rpi-attribute-value").First().Text())
		if key == "" || (label == "" && value == "") {
			return
		}
		if _, dup := out[key]; !dup {
			out[key] = rpi{label: label, value: value}
		}
	})
	return out
}

// detailFields merges the bullet list and table layouts of the product
// details section.
func detailFields(doc *goquery.Document) dom.Fields {
	f := dom.Rows(doc.Selection, "#detailBullets_feature_div li, #detailBulletsWrapper_feature_div li", ".a-text-bold", "")
	f = append(f, dom.Rows(doc.Selection, "#productDetailsTable tr, #productDetails_detailBullets_sections1 tr, #productDetails_techSpec_section_1 tr", "th", "td")...)
	return f
}

func (Amazon) fromMarkup(p Page) (record.Record, bool) {
	doc := p.Doc
	base := p.URL.String()
	var r record.Record

	r.Title = dom.First(doc, dom.Text("#productTitle", "#ebooksProductTitle", "#title"))
	r.Authors, r.Narrators = amazonByline(doc)
	r.Description = sanitize.StripHTML(dom.First(doc,
		dom.Text("#bookDescription_feature_div noscript", "#bookDescription_feature_div .a-expander-content", "#bookDescription_feature_div", "#productDescription"),
	))
	r.CoverImage = cover.Resolve(doc, base,
		"#ebooksImgBlkFront", "#imgBlkFront", "#landingImage", "#imgTagWrapperId img", "#main-image", "[data-a-dynamic-image]")

	fields := detailFields(doc)
	rich := richProductInfo(doc)

	r.Identifiers.ISBN13 = dom.FirstValid(doc, isbn.ISBN13, rich.Producer("book_details-isbn13"), fields.Producer("isbn-13"))
	r.Identifiers.ISBN10 = dom.FirstValid(doc, isbn.ISBN10, rich.Producer("book_details-isbn10"), fields.Producer("isbn-10"))
	if !r.Identifiers.HasISBN() {
		r.Identifiers.ISBN10, r.Identifiers.ISBN13 = isbn.Find(fields.Get("isbn"))
	}
	r.Identifiers.ASIN = amazonASIN(doc, fields, p.URL)

	// The dedicated date field is more specific than a date inside the
	// publisher line, so it is read first; Fill never overwrites.
	r.PublishDate = dates.Normalize(dom.First(doc,
		rich.Producer("book_details-publication_date", "audiobook_details-release_date"),
		fields.Producer("publication date", "release date", "audible.com release date"),
	))
	r.PageCount = stringsx.Count(dom.First(doc,
		rich.Producer("book_details-ebook_pages", "book_details-print_length", "book_details-fiona_pages"),
		fields.Producer("print length", "hardcover", "paperback", "mass market paperback", "listening length"),
	))
	imprint.Parse(dom.First(doc, rich.Producer("book_details-publisher"), fields.Producer("publisher"))).
		Fill(&r.Publisher, &r.PublishDate, &r.PageCount)

	r.Series = amazonSeries(doc, rich)
	r.Tags = tags.Normalize(dom.Texts(doc.Selection, "#wayfinding-breadcrumbs_feature_div a, #ebooksSubtitleBreadcrumb a")...)
	return r, !r.IsZero()
}

// amazonByline splits "#bylineInfo" contributors by their role annotation.
// Narrators go to their own list; unannotated names and authors are authors.
func amazonByline(doc *goquery.Document) (authors, narrators []string) {
	var others []string
	doc.Find("#bylineInfo span.author").Each(func(_ int, s *goquery.Selection) {
		name := names.Clean(stringsx.FirstNonEmpty(
			s.Find("a.a-link-normal").First().Text(),
			s.Find("a").First().Text(),
		))
		if name == "" {
			return
		}
		role := names.Role(s.Find(".contribution").Text())
		switch {
		case names.IsNarrator(role):
			narrators = append(narrators, name)
		case names.IsAuthor(role):
			authors = append(authors, name)
		default:
			others = append(others, name)
		}
	})
	if len(authors) == 0 {
		authors = others
	}
	if len(authors) == 0 {
		authors = names.List(dom.Texts(doc.Selection, ".contributorNameID")...)
	}
	return authors, narrators
}

func amazonASIN(doc *goquery.Document, fields dom.Fields, u *url.URL) string {
	return dom.FirstValid(doc, isbn.ASIN,
		dom.Attr("#ASIN", "value"),
		dom.Attr(`input[name="ASIN"]`, "value"),
		fields.Producer("asin"),
		dom.Const(asinFromPath(u)),
		dom.Attr("[data-asin]", "data-asin"),
	)
}

// amazonSeries reads the carousel entry (label "Book 3 of 5", value the
// series name) and falls back to the series bullet widget.
func amazonSeries(doc *goquery.Document, rich richInfo) *record.Series {
	if s, ok := rich["book_details-series"]; ok && (s.value != "" || s.label != "") {
		number, _ := series.Number(s.label)
		return record.NewSeries(s.value, number)
	}
	text := dom.First(doc, dom.Text("#seriesBulletWidget_feature_div a", "#seriesTitle_feature_div a"))
	if text == "" {
		return nil
	}
	// "Book 2 of 3: The Expanse"
	if i := strings.Index(text, ":"); i > 0 {
		number, _ := series.Number(text[:i])
		return record.NewSeries(stringsx.Clean(text[i+1:]), number)
	}
	return record.NewSeries(series.Parse(text))
}
