// Package tags collects category and genre labels into a deduplicated set.
package tags

import (
	"strings"

	"golang.org/x/text/cases"

	"bookmeta/src/internal/stringsx"
)

// denylist holds store navigation terms that are never tags. Keys are folded.
var denylist = map[string]bool{
	"books":                     true,
	"kindle store":              true,
	"kindle ebooks":             true,
	"kindle books":              true,
	"ebooks":                    true,
	"audible books & originals": true,
	"audiobooks":                true,
	"all categories":            true,
}

// key folds case. A Caser holds state, so each call builds its own.
func key(s string) string {
	return cases.Fold().String(stringsx.Clean(s))
}

// Denied reports whether tag is a navigation term.
func Denied(tag string) bool {
	k := key(tag)
	return denylist[k] || strings.HasPrefix(k, "see top")
}

// Set is an insertion-ordered tag set keyed by case-folded, whitespace
// collapsed text. The first spelling seen is the one kept. The zero value is
// ready to use.
type Set struct {
	seen  map[string]bool
	items []string
}

// Add inserts every non-empty, non-denied tag not already present.
func (s *Set) Add(tags ...string) {
	for _, t := range tags {
		t = stringsx.Clean(t)
		if t == "" || Denied(t) {
			continue
		}
		k := key(t)
		if s.seen == nil {
			s.seen = map[string]bool{}
		}
		if s.seen[k] {
			continue
		}
		s.seen[k] = true
		s.items = append(s.items, t)
	}
}

// Len returns the number of tags in the set.
func (s *Set) Len() int { return len(s.items) }

// Slice returns the tags in insertion order, or nil when empty.
func (s *Set) Slice() []string {
	if len(s.items) == 0 {
		return nil
	}
	return append([]string(nil), s.items...)
}

// Normalize runs tags through a fresh Set.
func Normalize(tags ...string) []string {
	var s Set
	s.Add(tags...)
	return s.Slice()
}

// Union merges several tag lists in order.
func Union(lists ...[]string) []string {
	var s Set
	for _, l := range lists {
		s.Add(l...)
	}
	return s.Slice()
}
