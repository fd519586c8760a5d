package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookmeta/src/internal/stringsx"
)

// layouts are tried in order; the first one that parses wins.
var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

var (
	reOrdinal = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	reCompact = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2})$`)
	reISODate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T`)
)

// Normalize returns s as YYYY-MM-DD when it holds a full calendar date.
// Anything that does not parse (a bare year, "March 2019", free text) is
// returned cleaned but otherwise verbatim. Normalize(Normalize(s)) ==
// Normalize(s).
func Normalize(s string) string {
	s = stringsx.Clean(s)
	if s == "" {
		return ""
	}
	if m := reISODate.FindStringSubmatch(s); m != nil {
		if _, err := time.Parse("2006-01-02", m[1]); err == nil {
			return m[1]
		}
	}
	if t, ok := parseCompact(s); ok {
		return t.Format("2006-01-02")
	}
	candidate := reOrdinal.ReplaceAllString(s, "$1")
	candidate = strings.TrimSuffix(candidate, ".")
	for _, layout := range layouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// parseCompact handles MM-DD-YY and MM/DD/YY. Two digit years of 70 and up
// belong to the 1900s, the rest to the 2000s.
func parseCompact(s string) (time.Time, bool) {
	m := reCompact.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	yy, _ := strconv.Atoi(m[3])
	year := 2000 + yy
	if yy >= 70 {
		year = 1900 + yy
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (13-40-23); reject instead of rolling over.
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// FromUnixMillis formats an epoch timestamp in milliseconds as a UTC date.
func FromUnixMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

var reYear = regexp.MustCompile(`\b\d{4}\b`)

// Years outside [MinYear, MaxYear] are not taken for publication years.
const (
	MinYear = 1000
	MaxYear = 2199
)

// ExtractYear scans a string and returns a plausible 4-digit year if found.
func ExtractYear(s string) int {
	for _, m := range reYear.FindAllString(s, -1) {
		y, _ := strconv.Atoi(m)
		if y >= MinYear && y <= MaxYear {
			return y
		}
	}
	return 0
}

// HasYear reports whether s carries something that looks like a year.
func HasYear(s string) bool { return ExtractYear(s) != 0 }
