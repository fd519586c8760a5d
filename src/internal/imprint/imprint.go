// Package imprint decomposes compound publication lines such as
// "Example House (January 1, 2020)" or "Press, 2012 - Fiction - 841 pages".
package imprint

import (
	"regexp"
	"strconv"
	"strings"

	"bookmeta/src/internal/dates"
	"bookmeta/src/internal/stringsx"
)

// Imprint is the result of Parse. Empty fields were not found.
type Imprint struct {
	Publisher string
	Date      string
	Pages     *int
}

var (
	rePages  = regexp.MustCompile(`(?i)(\d[\d,]{0,6})\s+pages?\b`)
	reParen  = regexp.MustCompile(`\(([^()]*)\)`)
	reDashes = regexp.MustCompile(`\s+[-–—]\s+`)
	reISO    = regexp.MustCompile(`^\d{4}(-\d{2}-\d{2})?$`)
)

// Parse splits text into publisher, date and page count. Each part is taken
// from the first sub-pattern that yields it:
//   - pages: "<n> pages" anywhere in the text
//   - date: a parenthetical holding a year, else the first dash-separated
//     segment after the publisher that holds one
//   - publisher: the text before the first ",", ";" or "("
func Parse(text string) Imprint {
	text = stringsx.Clean(text)
	var out Imprint
	if text == "" {
		return out
	}
	if m := rePages.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil && n > 0 {
			out.Pages = &n
		}
	}
	if bare := stringsx.Clean(rePages.ReplaceAllString(text, "")); looksLikeDate(bare) {
		out.Date = dates.Normalize(bare)
		return out
	}
	for _, m := range reParen.FindAllStringSubmatch(text, -1) {
		if dates.HasYear(m[1]) {
			out.Date = dates.Normalize(m[1])
			break
		}
	}
	head, rest := text, ""
	if i := strings.IndexAny(text, ",;("); i >= 0 {
		head, rest = text[:i], text[i+1:]
	}
	head = stringsx.Clean(reDashes.Split(head, 2)[0])
	if looksLikeDate(head) {
		if out.Date == "" {
			out.Date = dates.Normalize(head)
		}
		head = ""
	}
	out.Publisher = strings.Trim(head, " .,:")
	if out.Date == "" && rest != "" {
		for _, seg := range reDashes.Split(rest, -1) {
			seg = stringsx.Clean(reParen.ReplaceAllString(seg, ""))
			if dates.HasYear(seg) && !rePages.MatchString(seg) {
				out.Date = dates.Normalize(strings.Trim(seg, " ,;"))
				break
			}
		}
	}
	return out
}

func looksLikeDate(s string) bool {
	if s == "" || !dates.HasYear(s) {
		return false
	}
	return reISO.MatchString(dates.Normalize(s))
}

// Fill copies parsed parts into the given fields, leaving any field that
// already holds a value untouched.
func (im Imprint) Fill(publisher, date *string, pages **int) {
	if publisher != nil && *publisher == "" {
		*publisher = im.Publisher
	}
	if date != nil && *date == "" {
		*date = im.Date
	}
	if pages != nil && *pages == nil {
		*pages = im.Pages
	}
}
