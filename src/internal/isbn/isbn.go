// Package isbn sanitizes ISBN and vendor identifiers scraped from pages.
//
// Acceptance is by length only. Catalog pages routinely carry identifiers with
// bad check digits and those are still the keys other systems use.
package isbn

import (
	"regexp"
	"strings"
	"unicode"
)

// Strip keeps only ASCII letters and digits and upper-cases the result.
func Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// ISBN10 returns the stripped form of s when it is nine digits followed by a
// digit or X.
func ISBN10(s string) (string, bool) {
	c := Strip(s)
	if len(c) != 10 {
		return "", false
	}
	for i, r := range c {
		if r >= '0' && r <= '9' {
			continue
		}
		if i == 9 && r == 'X' {
			continue
		}
		return "", false
	}
	return c, true
}

// ISBN13 returns the stripped form of s when it is exactly 13 digits.
func ISBN13(s string) (string, bool) {
	c := Strip(s)
	if len(c) != 13 {
		return "", false
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return c, true
}

// Classify sorts a raw identifier into the ISBN-10 or ISBN-13 slot. Both
// results are empty when s is neither.
func Classify(s string) (isbn10, isbn13 string) {
	if v, ok := ISBN13(s); ok {
		return "", v
	}
	if v, ok := ISBN10(s); ok {
		return v, ""
	}
	return "", ""
}

// ASIN returns the upper-cased ten character vendor id, or false.
func ASIN(s string) (string, bool) {
	c := Strip(s)
	if len(c) != 10 {
		return "", false
	}
	return c, true
}

var reCandidate = regexp.MustCompile(`\d[\d-]{7,}[\dXx]`)

// Find scans labelled text such as "ISBN-13: 978-1234567890" and classifies
// every identifier-shaped run it contains. The first hit per slot wins.
func Find(text string) (isbn10, isbn13 string) {
	for _, m := range reCandidate.FindAllString(text, -1) {
		ten, thirteen := Classify(m)
		if isbn10 == "" {
			isbn10 = ten
		}
		if isbn13 == "" {
			isbn13 = thirteen
		}
	}
	return isbn10, isbn13
}
