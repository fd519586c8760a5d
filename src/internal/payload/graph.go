package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Graph is a read-only arena of normalized application-state nodes keyed by
// reference strings such as "Book:kca://book/123". Keys keep the order they
// had in the document so "first" is well defined.
type Graph struct {
	keys  []string
	nodes map[string]map[string]any
}

// DecodeGraph reads a JSON object of key -> node without losing key order.
// Non-object values are skipped.
func DecodeGraph(raw []byte) (*Graph, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("payload: graph is not an object")
	}
	g := &Graph{nodes: map[string]map[string]any{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("payload: unexpected graph token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		node, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if _, dup := g.nodes[key]; !dup {
			g.keys = append(g.keys, key)
		}
		g.nodes[key] = node
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.keys)
}

// Node looks up a node by key.
func (g *Graph) Node(key string) (map[string]any, bool) {
	if g == nil {
		return nil, false
	}
	n, ok := g.nodes[key]
	return n, ok
}

// WithPrefix returns the nodes whose key starts with prefix, in document order.
func (g *Graph) WithPrefix(prefix string) []map[string]any {
	if g == nil {
		return nil
	}
	var out []map[string]any
	for _, k := range g.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, g.nodes[k])
		}
	}
	return out
}

// Resolve follows a {"__ref": key} pointer. Inline objects are returned as-is;
// dangling references and non-objects yield nil.
func (g *Graph) Resolve(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	ref, isRef := m["__ref"].(string)
	if !isRef {
		return m
	}
	n, _ := g.Node(ref)
	return n
}
