// Package payload decodes machine-readable blobs embedded in product pages:
// JSON script blocks, JSON-LD and serialized application state.
//
// Every decoder here reports failure as absence. A blob that does not parse is
// logged at debug level and skipped; nothing in this package returns an error
// to a strategy.
package payload

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Decode parses raw JSON into generic values. Numbers stay json.Number so
// large ids keep their digits.
func Decode(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Parse is Decode with failure folded into ok=false and a debug event.
func Parse(raw string, log zerolog.Logger) (any, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	v, err := Decode(raw)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(raw)).Msg("payload: malformed json ignored")
		return nil, false
	}
	return v, true
}

// Blocks decodes the text of every element matching selector, in document
// order, skipping the ones that fail.
func Blocks(doc *goquery.Document, selector string, log zerolog.Logger) []any {
	var out []any
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := Parse(s.Text(), log); ok {
			out = append(out, v)
		}
	})
	return out
}

// Get walks nested objects by key. Missing steps yield nil.
func Get(v any, path ...string) any {
	for _, k := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

// String renders scalars as text: strings as-is, numbers in their decoded
// form, booleans as "true"/"false". Objects with a "name" key yield the name.
func String(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		return String(t["name"])
	}
	return ""
}

// Str is String(Get(v, path...)).
func Str(v any, path ...string) string { return String(Get(v, path...)) }

// Int reads an integral number from a json.Number, float or numeric string.
func Int(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// List returns v as a slice. A single object or scalar becomes a one-element
// slice; nil becomes nil.
func List(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	}
	return []any{v}
}

// Names collects "name" values (or bare strings) from a list of contributor
// objects such as [{"name":"A"},{"name":"B"}].
func Names(v any) []string {
	var out []string
	for _, it := range List(v) {
		if s := strings.TrimSpace(String(it)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Object returns v as an object or nil.
func Object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
