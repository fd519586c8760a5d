package names

import (
	"regexp"
	"strings"

	"bookmeta/src/internal/stringsx"
)

var (
	reRole   = regexp.MustCompile(`\(([^)]*)\)\s*,?\s*$`)
	reBy     = regexp.MustCompile(`(?i)^(?:by|written by|narrated by)\s+`)
	reJoiner = regexp.MustCompile(`(?i)\s+(?:and|&)\s+`)
)

// Clean tidies a single contributor name: whitespace collapsed, a leading
// "by" dropped, a trailing role such as "(Author)" removed along with stray
// separators.
func Clean(name string) string {
	name = stringsx.Clean(name)
	name = reBy.ReplaceAllString(name, "")
	name = reRole.ReplaceAllString(name, "")
	name = strings.Trim(name, " ,;")
	return stringsx.Clean(name)
}

// Role returns the lower-cased role text of a byline entry ("Narrator" in
// "Jane Doe (Narrator)"), or "" when none is given.
func Role(raw string) string {
	m := reRole.FindStringSubmatch(stringsx.Clean(raw))
	if m == nil {
		return ""
	}
	return strings.ToLower(stringsx.Clean(m[1]))
}

// IsNarrator reports whether a role label marks a narrator or reader.
func IsNarrator(role string) bool {
	role = strings.ToLower(role)
	return strings.Contains(role, "narrator") || strings.Contains(role, "reader")
}

// IsAuthor reports whether a role label names an author. An empty role is an
// author: bylines only annotate the exceptions.
func IsAuthor(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	return role == "" || strings.Contains(role, "author")
}

// Split breaks a free-text contributor field on commas, semicolons and "and"
// or "&" joiners. Document order is kept and duplicates are kept too.
func Split(s string) []string {
	s = reJoiner.ReplaceAllString(stringsx.Clean(s), ",")
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if n := Clean(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// List cleans each name and drops empties, in order.
func List(raw ...string) []string {
	var out []string
	for _, r := range raw {
		if n := Clean(r); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Unique is List with later repeats removed; for sources whose contributor
// blocks are sets rather than sequences.
func Unique(raw ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range List(raw...) {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
