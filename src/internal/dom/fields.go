package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookmeta/src/internal/stringsx"
)

// Field is one label/value row of a details table or bullet list.
type Field struct {
	Label string
	Value string
}

// Fields is an ordered list of label/value rows. Labels are lower-case with
// trailing colons removed.
type Fields []Field

// NormalizeLabel lower-cases a label and strips separators around it.
func NormalizeLabel(s string) string {
	s = strings.ToLower(stringsx.Clean(s))
	return strings.TrimSpace(strings.Trim(s, ":： "))
}

// Rows collects label/value pairs from every element matching rows. When
// value is empty the row text minus the label element is used; a row with no
// label element is split on its first colon.
func Rows(root *goquery.Selection, rows, label, value string) Fields {
	var out Fields
	root.Find(rows).Each(func(_ int, row *goquery.Selection) {
		var l, v string
		if lab := row.Find(label).First(); label != "" && lab.Length() > 0 {
			l = stringsx.Clean(lab.Text())
			if value != "" {
				v = stringsx.Clean(row.Find(value).First().Text())
			} else {
				v = OwnText(row, label)
			}
		} else if i := strings.Index(stringsx.Clean(row.Text()), ":"); i > 0 {
			t := stringsx.Clean(row.Text())
			l, v = t[:i], t[i+1:]
		}
		l = NormalizeLabel(l)
		v = strings.TrimLeft(stringsx.Clean(v), ":： ")
		if l == "" || v == "" {
			return
		}
		out = append(out, Field{Label: l, Value: v})
	})
	return out
}

// Get returns the value of the first row whose label equals one of keys or
// starts with it. Keys are tried in order.
func (f Fields) Get(keys ...string) string {
	for _, k := range keys {
		k = NormalizeLabel(k)
		for _, row := range f {
			if row.Label == k {
				return row.Value
			}
		}
		for _, row := range f {
			if strings.HasPrefix(row.Label, k) {
				return row.Value
			}
		}
	}
	return ""
}

// Producer exposes a lookup as a chain step.
func (f Fields) Producer(keys ...string) Producer {
	return func(*goquery.Document) string { return f.Get(keys...) }
}
