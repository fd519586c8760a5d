package payload

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const ldSelector = `script[type="application/ld+json"]`

// LDNodes returns every JSON-LD object on the page in document order, with
// top-level arrays and @graph containers flattened.
func LDNodes(doc *goquery.Document, log zerolog.Logger) []map[string]any {
	var out []map[string]any
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case []any:
			for _, it := range t {
				walk(it)
			}
		case map[string]any:
			if g, ok := t["@graph"]; ok {
				walk(g)
				return
			}
			out = append(out, t)
		}
	}
	for _, b := range Blocks(doc, ldSelector, log) {
		walk(b)
	}
	return out
}

// HasType reports whether a JSON-LD node's @type (string or list) equals one
// of types, ignoring case.
func HasType(node map[string]any, types ...string) bool {
	for _, t := range List(node["@type"]) {
		s, _ := t.(string)
		for _, want := range types {
			if strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

// FindLD returns the first JSON-LD node of one of the given types.
func FindLD(doc *goquery.Document, log zerolog.Logger, types ...string) map[string]any {
	for _, n := range LDNodes(doc, log) {
		if HasType(n, types...) {
			return n
		}
	}
	return nil
}
