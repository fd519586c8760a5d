package payload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return d
}

func TestParseMalformedIsAbsent(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	if _, ok := Parse(`{"title": "Trunc`, log); ok {
		t.Fatalf("Parse: truncated json accepted")
	}
	if !strings.Contains(buf.String(), "malformed json") {
		t.Fatalf("Parse: expected debug event, got %q", buf.String())
	}
	if _, ok := Parse("   ", log); ok {
		t.Fatalf("Parse: blank accepted")
	}
}

func TestBlocksSkipsBroken(t *testing.T) {
	d := doc(t, `<html><body>
<script type="application/json">{"a":1}</script>
<script type="application/json">{broken</script>
<script type="application/json">{"a":3}</script>
</body></html>`)
	got := Blocks(d, `script[type="application/json"]`, zerolog.Nop())
	if len(got) != 2 {
		t.Fatalf("Blocks: want 2, got %d", len(got))
	}
	if Str(got[1], "a") != "3" {
		t.Fatalf("Blocks order: got %v", got[1])
	}
}

func TestAccessors(t *testing.T) {
	v, err := Decode(`{"n": 12345678901234, "f": 2.5, "s": " 42 ", "p": {"name": "House"}, "xs": [{"name":"A"},"B",{"name":""}]}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if Str(v, "n") != "12345678901234" {
		t.Fatalf("Str number: %q", Str(v, "n"))
	}
	if n, ok := Int(Get(v, "s")); !ok || n != 42 {
		t.Fatalf("Int string: %d %v", n, ok)
	}
	if n, ok := Int(Get(v, "f")); !ok || n != 2 {
		t.Fatalf("Int float: %d %v", n, ok)
	}
	if Str(v, "p") != "House" {
		t.Fatalf("Str name object: %q", Str(v, "p"))
	}
	if got := Names(Get(v, "xs")); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("Names: %v", got)
	}
	if Get(v, "missing", "deeper") != nil {
		t.Fatalf("Get missing path should be nil")
	}
	if List(nil) != nil || len(List("x")) != 1 {
		t.Fatalf("List wrapping")
	}
}

func TestLDNodesFlattensGraph(t *testing.T) {
	d := doc(t, `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@graph":[{"@type":"WebPage"},{"@type":["Book","Product"],"name":"Graph Book"}]}</script>
<script type="application/ld+json">[{"@type":"Audiobook","name":"Listen"}]</script>
</head></html>`)
	nodes := LDNodes(d, zerolog.Nop())
	if len(nodes) != 3 {
		t.Fatalf("LDNodes: want 3, got %d", len(nodes))
	}
	if n := FindLD(d, zerolog.Nop(), "book"); Str(n, "name") != "Graph Book" {
		t.Fatalf("FindLD book: %v", n)
	}
	if n := FindLD(d, zerolog.Nop(), "Audiobook"); Str(n, "name") != "Listen" {
		t.Fatalf("FindLD audiobook: %v", n)
	}
	if FindLD(d, zerolog.Nop(), "Movie") != nil {
		t.Fatalf("FindLD: unexpected match")
	}
}

func TestGraphOrderAndResolve(t *testing.T) {
	raw := `{
  "Contributor:kca://author/2": {"name": "Second Author"},
  "Book:kca://book/9": {"title": "Later", "legacyId": 9},
  "Book:kca://book/1": {"title": "First", "legacyId": 1,
     "primaryContributorEdge": {"node": {"__ref": "Contributor:kca://author/2"}}},
  "ROOT_QUERY": "not an object"
}`
	g, err := DecodeGraph([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeGraph: %v", err)
	}
	if g.Len() != 3 {
		t.Fatalf("Len: want 3, got %d", g.Len())
	}
	books := g.WithPrefix("Book:")
	if len(books) != 2 || Str(books[0], "title") != "Later" {
		t.Fatalf("WithPrefix must keep document order: %v", books)
	}
	author := g.Resolve(Get(books[1], "primaryContributorEdge", "node"))
	if Str(author, "name") != "Second Author" {
		t.Fatalf("Resolve: %v", author)
	}
	if g.Resolve(map[string]any{"__ref": "Missing:1"}) != nil {
		t.Fatalf("Resolve dangling should be nil")
	}
	inline := map[string]any{"name": "Inline"}
	if Str(g.Resolve(inline), "name") != "Inline" {
		t.Fatalf("Resolve inline object")
	}
}

func TestDecodeGraphRejectsNonObject(t *testing.T) {
	if _, err := DecodeGraph([]byte(`[1,2]`)); err == nil {
		t.Fatalf("DecodeGraph: array accepted")
	}
	if _, err := DecodeGraph([]byte(`{"Book:1": {"title": "x"`)); err == nil {
		t.Fatalf("DecodeGraph: truncated accepted")
	}
	var g *Graph
	if g.Len() != 0 || g.WithPrefix("Book:") != nil {
		t.Fatalf("nil graph should be empty")
	}
}
