// Package cover picks the best cover image URL from a product page.
//
// Candidates on an image element are tried in this order: an already
// resolved high resolution attribute, the last (largest) srcset entry, the
// plain src, a dynamic-image JSON blob (largest declared area) and a
// background-image style. Social meta tags come last. Every candidate is
// normalized; one that normalizes to "" is skipped.
package cover

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookmeta/src/internal/dom"
)

var (
	reURLToken = regexp.MustCompile(`(?i)^url\((.*)\)$`)
	reBgImage  = regexp.MustCompile(`(?i)background(?:-image)?\s*:[^;]*url\(\s*([^)]*?)\s*\)`)
)

// Normalize cleans one candidate: wrapping quotes and url() are stripped,
// protocol-relative URLs get https, relative ones are resolved against base.
// Anything that does not end up as an http(s) URL yields "".
func Normalize(raw, base string) string {
	s := unwrap(raw)
	if s == "" || strings.HasPrefix(strings.ToLower(s), "data:") {
		return ""
	}
	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return ""
		}
		u = b.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return ""
	}
	return u.String()
}

func unwrap(s string) string {
	s = strings.TrimSpace(s)
	for {
		prev := s
		s = strings.Trim(s, `"' `)
		if m := reURLToken.FindStringSubmatch(s); m != nil {
			s = strings.TrimSpace(m[1])
		}
		if s == prev {
			return s
		}
	}
}

// LastSrcset returns the URL of the final srcset entry. Entries are listed in
// ascending quality by convention. A URL runs to the next whitespace, so
// commas inside it (Amazon's "_SR320,320_") are kept; only a trailing comma or
// the comma after a descriptor ends a candidate.
func LastSrcset(srcset string) string {
	const space = " \t\n\r\f"
	var last string
	s := srcset
	for {
		s = strings.TrimLeft(s, space+",")
		if s == "" {
			return last
		}
		u := s
		s = ""
		if i := strings.IndexAny(u, space); i >= 0 {
			u, s = u[:i], u[i:]
		}
		ended := strings.HasSuffix(u, ",")
		if u = strings.TrimRight(u, ","); u != "" {
			last = u
		}
		if ended {
			continue
		}
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		} else {
			s = ""
		}
	}
}

// Largest decodes a dynamic-image blob ({"url": [width, height], ...}) and
// returns the URL with the largest area. Ties keep the earlier entry.
func Largest(blob string) string {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(blob)))
	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ""
	}
	best, bestArea := "", -1.0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return best
		}
		key, _ := tok.(string)
		var dims []float64
		if err := dec.Decode(&dims); err != nil {
			return best
		}
		area := 0.0
		if len(dims) >= 2 {
			area = dims[0] * dims[1]
		}
		if key != "" && area > bestArea {
			best, bestArea = key, area
		}
	}
	return best
}

// BackgroundImage extracts the url() of a background or background-image
// declaration.
func BackgroundImage(style string) string {
	if m := reBgImage.FindStringSubmatch(style); m != nil {
		return m[1]
	}
	return ""
}

// FromElement walks the per-element chain for one image node.
func FromElement(s *goquery.Selection, base string) string {
	attr := func(name string) string {
		v, _ := s.Attr(name)
		return v
	}
	candidates := []func() string{
		func() string { return attr("data-old-hires") },
		func() string { return LastSrcset(attr("srcset")) },
		func() string { return attr("src") },
		func() string { return Largest(attr("data-a-dynamic-image")) },
		func() string { return BackgroundImage(attr("style")) },
	}
	for _, c := range candidates {
		if u := Normalize(c(), base); u != "" {
			return u
		}
	}
	return ""
}

// Resolve tries each selector's elements in order, then the social meta tags.
func Resolve(doc *goquery.Document, base string, selectors ...string) string {
	for _, sel := range selectors {
		var out string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			out = FromElement(s, base)
			return out == ""
		})
		if out != "" {
			return out
		}
	}
	return Social(doc, base)
}

// Social is the twitter:image / og:image fallback.
func Social(doc *goquery.Document, base string) string {
	for _, key := range []string{"twitter:image", "og:image"} {
		if u := Normalize(dom.Meta(key)(doc), base); u != "" {
			return u
		}
	}
	return ""
}
