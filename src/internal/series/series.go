// Package series pulls a series name and reading position out of free text.
package series

import (
	"regexp"
	"strconv"
	"strings"

	"bookmeta/src/internal/stringsx"
)

var (
	reOf      = regexp.MustCompile(`(?i)\b(?:book|volume|vol\.?|part)\s+(\d+(?:\.\d+)?)\s+of\s+(.+)$`)
	reOrdinal = regexp.MustCompile(`(?i)\b(?:book|volume|vol\.?|part)\s+(\d+(?:\.\d+)?)\b`)
	reHash    = regexp.MustCompile(`#\s*(\d+(?:\.\d+)?)`)
	reBare    = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reParens  = regexp.MustCompile(`^\((.*)\)$`)
	reTrail   = regexp.MustCompile(`[\s,:(]*#\s*\d+(?:\.\d+)?\)?\s*$`)
)

// Position validates a positional value: it must parse as a positive decimal.
// The canonical string form is returned ("03" -> "3", "2.50" -> "2.5").
func Position(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !reBare.MatchString(s) {
		return "", false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// Number finds a reading position in text such as "Book 3 of 5", "#2",
// "Volume 4" or a bare "2". Placeholders ("0", "Book 0", "n/a") are rejected.
func Number(text string) (string, bool) {
	text = stringsx.Clean(text)
	if text == "" {
		return "", false
	}
	if p, ok := Position(text); ok {
		return p, true
	}
	for _, re := range []*regexp.Regexp{reOrdinal, reHash} {
		if m := re.FindStringSubmatch(text); m != nil {
			if p, ok := Position(m[1]); ok {
				return p, true
			}
			return "", false
		}
	}
	return "", false
}

// Parse splits a series line into its name and position. Recognized shapes:
//
//	"Book 1 of Riftwar Saga Series" -> ("Riftwar Saga Series", "1")
//	"Book 3 of 5"                    -> ("", "3")
//	"(The Expanse, #2)"              -> ("The Expanse", "2")
//	"The Expanse #2"                 -> ("The Expanse", "2")
//	"The Expanse"                    -> ("The Expanse", "")
//
// Either result may be empty.
func Parse(text string) (name, number string) {
	text = stringsx.Clean(text)
	if m := reParens.FindStringSubmatch(text); m != nil {
		text = stringsx.Clean(m[1])
	}
	if text == "" {
		return "", ""
	}
	if m := reOf.FindStringSubmatch(text); m != nil {
		number, _ = Position(m[1])
		rest := stringsx.Clean(m[2])
		if _, numeric := Position(rest); numeric {
			// "Book 3 of 5": the tail is the series length, not its name.
			return "", number
		}
		return rest, number
	}
	number, _ = Number(text)
	if reHash.MatchString(text) {
		name = stringsx.Clean(reTrail.ReplaceAllString(text, ""))
		return name, number
	}
	if reOrdinal.MatchString(text) || reBare.MatchString(text) {
		return "", number
	}
	return text, ""
}
