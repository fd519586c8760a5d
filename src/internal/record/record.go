package record

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"bookmeta/src/internal/dates"
)

// Source names the provider a record was extracted from.
type Source string

const (
	Goodreads   Source = "goodreads"
	Amazon      Source = "amazon"
	Audible     Source = "audible"
	GoogleBooks Source = "google-books"
)

// ErrNoTitle is returned by Validate for a record without a usable title.
var ErrNoTitle = errors.New("record: title is required")

// Record is the normalized bibliographic record every source strategy
// produces. It is built once per extraction and not mutated afterwards;
// Merge returns a new value.
type Record struct {
	Source      Source      `yaml:"source" json:"source"`
	SourceURL   string      `yaml:"source_url" json:"source_url"`
	Title       string      `yaml:"title" json:"title"`
	Subtitle    string      `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Authors     Names       `yaml:"authors,omitempty" json:"authors,omitempty"`
	Narrators   Names       `yaml:"narrators,omitempty" json:"narrators,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	CoverImage  string      `yaml:"cover_image,omitempty" json:"cover_image,omitempty"`
	Identifiers Identifiers `yaml:"identifiers,omitempty" json:"identifiers,omitempty"`
	Publisher   string      `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	PublishDate string      `yaml:"publish_date,omitempty" json:"publish_date,omitempty"`
	PageCount   *int        `yaml:"page_count,omitempty" json:"page_count,omitempty"`
	Series      *Series     `yaml:"series,omitempty" json:"series,omitempty"`
	Tags        []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Identifiers is a sparse set of catalog keys. Any subset may be present.
type Identifiers struct {
	ISBN10    string `yaml:"isbn10,omitempty" json:"isbn10,omitempty"`
	ISBN13    string `yaml:"isbn13,omitempty" json:"isbn13,omitempty"`
	ASIN      string `yaml:"asin,omitempty" json:"asin,omitempty"`
	Goodreads string `yaml:"goodreads,omitempty" json:"goodreads,omitempty"`
	Google    string `yaml:"google,omitempty" json:"google,omitempty"`
}

// IsZero reports whether no identifier is set. yaml.v3 uses it for omitempty.
func (id Identifiers) IsZero() bool { return id == Identifiers{} }

// HasISBN reports whether either ISBN slot is filled.
func (id Identifiers) HasISBN() bool { return id.ISBN10 != "" || id.ISBN13 != "" }

// Count returns how many identifier slots are filled.
func (id Identifiers) Count() int {
	n := 0
	for _, v := range []string{id.ISBN10, id.ISBN13, id.ASIN, id.Goodreads, id.Google} {
		if v != "" {
			n++
		}
	}
	return n
}

// Series is a series name and a positional string ("3", "2.5"). Either may be
// empty.
type Series struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Number string `yaml:"number,omitempty" json:"number,omitempty"`
}

// NewSeries returns nil when both parts are empty.
func NewSeries(name, number string) *Series {
	name, number = strings.TrimSpace(name), strings.TrimSpace(number)
	if name == "" && number == "" {
		return nil
	}
	return &Series{Name: name, Number: number}
}

// Names is an ordered list of contributor names. In YAML it accepts:
// - a single string
// - a sequence of strings
// - a sequence of {name: ...} mappings
type Names []string

func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*n = nil
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		s := strings.TrimSpace(value.Value)
		if s == "" || s == "null" {
			*n = nil
			return nil
		}
		*n = Names{s}
		return nil
	case yaml.SequenceNode:
		var out Names
		for _, c := range value.Content {
			switch c.Kind {
			case yaml.ScalarNode:
				if s := strings.TrimSpace(c.Value); s != "" {
					out = append(out, s)
				}
			case yaml.MappingNode:
				var m struct {
					Name string `yaml:"name"`
				}
				if err := c.Decode(&m); err != nil {
					return err
				}
				if s := strings.TrimSpace(m.Name); s != "" {
					out = append(out, s)
				}
			}
		}
		*n = out
		return nil
	default:
		*n = nil
		return nil
	}
}

// Validate enforces the one hard rule: a record has a title.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrNoTitle
	}
	return nil
}

// IsZero reports whether no field carries a value.
func (r Record) IsZero() bool {
	return r.Source == "" && r.SourceURL == "" && r.Title == "" && r.Subtitle == "" &&
		len(r.Authors) == 0 && len(r.Narrators) == 0 && r.Description == "" &&
		r.CoverImage == "" && r.Identifiers.IsZero() && r.Publisher == "" &&
		r.PublishDate == "" && r.PageCount == nil && r.Series == nil && len(r.Tags) == 0
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	out.Authors = cloneStrings(r.Authors)
	out.Narrators = cloneStrings(r.Narrators)
	out.Tags = cloneStrings(r.Tags)
	if r.PageCount != nil {
		n := *r.PageCount
		out.PageCount = &n
	}
	if r.Series != nil {
		s := *r.Series
		out.Series = &s
	}
	return out
}

func cloneStrings[T ~[]string](in T) T {
	if len(in) == 0 {
		return nil
	}
	return append(T(nil), in...)
}

// Merge layers fallback beneath primary field by field: a value present in
// primary is kept, an empty one is filled from fallback. Identifier and series
// parts merge independently. Neither argument is modified.
func Merge(primary, fallback Record) Record {
	out := primary.Clone()
	fb := fallback.Clone()
	if out.Source == "" {
		out.Source = fb.Source
	}
	fill(&out.SourceURL, fb.SourceURL)
	fill(&out.Title, fb.Title)
	fill(&out.Subtitle, fb.Subtitle)
	fill(&out.Description, fb.Description)
	fill(&out.CoverImage, fb.CoverImage)
	fill(&out.Publisher, fb.Publisher)
	fill(&out.PublishDate, fb.PublishDate)
	fill(&out.Identifiers.ISBN10, fb.Identifiers.ISBN10)
	fill(&out.Identifiers.ISBN13, fb.Identifiers.ISBN13)
	fill(&out.Identifiers.ASIN, fb.Identifiers.ASIN)
	fill(&out.Identifiers.Goodreads, fb.Identifiers.Goodreads)
	fill(&out.Identifiers.Google, fb.Identifiers.Google)
	if len(out.Authors) == 0 {
		out.Authors = fb.Authors
	}
	if len(out.Narrators) == 0 {
		out.Narrators = fb.Narrators
	}
	if len(out.Tags) == 0 {
		out.Tags = fb.Tags
	}
	if out.PageCount == nil {
		out.PageCount = fb.PageCount
	}
	switch {
	case out.Series == nil:
		out.Series = fb.Series
	case fb.Series != nil:
		fill(&out.Series.Name, fb.Series.Name)
		fill(&out.Series.Number, fb.Series.Number)
	}
	return out
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
var dashCollapse = regexp.MustCompile(`-+`)

// Slugify generates a file-friendly slug from title and optional year.
func Slugify(title string, year *int) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "-")
	t = dashCollapse.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if year != nil {
		return fmt.Sprintf("%s-%d", t, *year)
	}
	return t
}

// Slug is the record's title slug, suffixed with its publication year when
// one is known.
func (r Record) Slug() string {
	if y := dates.ExtractYear(r.PublishDate); y > 0 {
		return Slugify(r.Title, &y)
	}
	return Slugify(r.Title, nil)
}
