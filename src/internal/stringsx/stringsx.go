package stringsx

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FirstNonEmpty returns the first string in vals that is non-empty when trimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// invisible runes that show up in scraped labels (bidi marks, zero-width
// spaces, BOM) and carry no text.
var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u200e", "",
	"\u200f", "",
	"\ufeff", "",
)

var reSpace = regexp.MustCompile(`\s+`)

// Clean collapses runs of whitespace (including non-breaking spaces) into a
// single space, drops invisible formatting runes and trims the result.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = invisible.Replace(norm.NFC.String(s))
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

// SplitList splits s on any of the given separators, cleans every part and
// drops empty and repeated entries. Order of first appearance is kept.
func SplitList(s string, seps ...string) []string {
	s = Clean(s)
	if s == "" {
		return nil
	}
	if len(seps) == 0 {
		seps = []string{","}
	}
	parts := []string{s}
	for _, sep := range seps {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = Clean(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var reNumber = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// Number returns the first decimal-looking run in s ("1,024 pages" -> 1024,
// "10 hrs and 5 mins" -> 10). ok is false when s has no digits.
func Number(s string) (float64, bool) {
	m := reNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.ReplaceAll(m, ",", "")
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Count returns the integral part of the first number in s when it is
// positive. Zero and missing values yield nil.
func Count(s string) *int {
	f, ok := Number(s)
	if !ok {
		return nil
	}
	n := int(f)
	if n <= 0 {
		return nil
	}
	return &n
}
