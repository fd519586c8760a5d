// Package dom holds the selector helpers the source strategies build their
// markup fallbacks from. A field is resolved by an ordered list of Producers;
// the first one that yields a non-empty cleaned value wins.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookmeta/src/internal/stringsx"
)

// Producer yields one candidate value for a field, or "".
type Producer func(doc *goquery.Document) string

// First evaluates producers in order and returns the first non-empty result.
func First(doc *goquery.Document, producers ...Producer) string {
	for _, p := range producers {
		if v := stringsx.Clean(p(doc)); v != "" {
			return v
		}
	}
	return ""
}

// FirstValid is First for fields with a validity rule: each candidate is
// passed to accept, and the first accepted (possibly rewritten) value wins.
func FirstValid(doc *goquery.Document, accept func(string) (string, bool), producers ...Producer) string {
	for _, p := range producers {
		if v, ok := accept(stringsx.Clean(p(doc))); ok {
			return v
		}
	}
	return ""
}

// Text tries each selector in turn and returns the cleaned text of the first
// matching element that has any.
func Text(selectors ...string) Producer {
	return func(doc *goquery.Document) string {
		for _, sel := range selectors {
			var out string
			doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				out = stringsx.Clean(s.Text())
				return out == ""
			})
			if out != "" {
				return out
			}
		}
		return ""
	}
}

// Attr returns the first non-empty attribute value among elements matching
// selector.
func Attr(selector, attr string) Producer {
	return func(doc *goquery.Document) string {
		return AttrOf(doc.Selection, selector, attr)
	}
}

// Meta reads <meta property=...> or <meta name=...> content for each key.
func Meta(keys ...string) Producer {
	return func(doc *goquery.Document) string {
		for _, k := range keys {
			if v := AttrOf(doc.Selection, `meta[property="`+k+`"]`, "content"); v != "" {
				return v
			}
			if v := AttrOf(doc.Selection, `meta[name="`+k+`"]`, "content"); v != "" {
				return v
			}
		}
		return ""
	}
}

// Const always yields v. Used to put a value computed elsewhere into a chain.
func Const(v string) Producer {
	return func(*goquery.Document) string { return v }
}

// AttrOf is Attr scoped to a selection.
func AttrOf(root *goquery.Selection, selector, attr string) string {
	var out string
	root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok {
			out = strings.TrimSpace(v)
		}
		return out == ""
	})
	return out
}

// Texts returns the cleaned, non-empty text of every element matching
// selector, in document order.
func Texts(root *goquery.Selection, selector string) []string {
	var out []string
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := stringsx.Clean(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// OwnText is the cleaned text of s without the text of the given child
// selector (a bold label inside a list item, for instance).
func OwnText(s *goquery.Selection, without string) string {
	c := s.Clone()
	if without != "" {
		c.Find(without).Remove()
	}
	return stringsx.Clean(c.Text())
}
