package sources

import (
	"context"
	"testing"
)

const audibleModern = `<html><head>
<meta property="og:image" content="https://example.com/cover-fallback.jpg" />
</head><body>
<adbl-product-hero>
  <adbl-product-image slot="image"><img src="https://example.com/cover.jpg" /></adbl-product-image>
  <adbl-title-lockup slot="title-lockup"><h1 slot="title">Sample Audible Title</h1></adbl-title-lockup>
  <adbl-product-metadata class="product-metadata" slot="metadata">
    <script type="application/json">
      {"authors":[{"name":"Author One"},{"name":"Author Two"}],"narrators":[{"name":"Narrator A"}]}
    </script>
  </adbl-product-metadata>
</adbl-product-hero>
<adbl-product-details class="product-details-widget-spacing">
  <adbl-text-block slot="summary">A thrilling adventure.</adbl-text-block>
  <adbl-product-metadata slot="metadata">
    <script type="application/json">
      {"duration":"10 hrs and 5 mins","releaseDate":"12-01-23","series":[{"part":"Book 2","name":"Saga"}],"publisher":{"name":"AudioPub"},"categories":[{"name":"Fantasy"},{"name":"Adventure"}]}
    </script>
  </adbl-product-metadata>
  <adbl-chip-group slot="chips"><adbl-chip>Epic</adbl-chip><adbl-chip>fantasy</adbl-chip></adbl-chip-group>
</adbl-product-details>
<div data-asin="B00TEST123"></div>
</body></html>`

func TestAudibleMetadataBlocks(t *testing.T) {
	p := page(t, "https://www.audible.com/pd/Sample-Audiobook/B00TEST123", audibleModern)
	r, ok := Audible{}.Extract(context.Background(), p)
	if !ok {
		t.Fatalf("expected match")
	}
	if r.Title != "Sample Audible Title" || r.Description != "A thrilling adventure." {
		t.Fatalf("title/description: %q %q", r.Title, r.Description)
	}
	if len(r.Authors) != 2 || r.Authors[1] != "Author Two" {
		t.Fatalf("authors: %v", r.Authors)
	}
	if len(r.Narrators) != 1 || r.Narrators[0] != "Narrator A" {
		t.Fatalf("narrators: %v", r.Narrators)
	}
	if r.Identifiers.ASIN != "B00TEST123" {
		t.Fatalf("asin: %q", r.Identifiers.ASIN)
	}
	if r.Publisher != "AudioPub" || r.PublishDate != "2023-12-01" {
		t.Fatalf("publisher/date: %q %q", r.Publisher, r.PublishDate)
	}
	if r.PageCount == nil || *r.PageCount != 10 {
		t.Fatalf("runtime proxy: %v", r.PageCount)
	}
	if r.Series == nil || r.Series.Name != "Saga" || r.Series.Number != "2" {
		t.Fatalf("series: %+v", r.Series)
	}
	if !sameTags(r.Tags, []string{"Fantasy", "Adventure", "Epic"}) {
		t.Fatalf("tags: %v", r.Tags)
	}
	if r.CoverImage != "https://example.com/cover.jpg" {
		t.Fatalf("cover: %q", r.CoverImage)
	}
}

func TestAudibleMalformedBlockKeepsTheRest(t *testing.T) {
	html := `<html><body>
<h1 data-testid="hero-title-block__title">Legacy Title</h1>
<adbl-product-metadata><script type="application/json">{"authors":[{"name":"Lost</script></adbl-product-metadata>
<adbl-product-metadata><script type="application/json">{"releaseDate":"03-15-99"}</script></adbl-product-metadata>
<ul>
  <li data-testid="author-info"><a>Markup Author</a></li>
  <li data-testid="narrator-info"><a>Markup Narrator</a></li>
</ul>
<div data-testid="runtime"><span><span>7 hrs and 2 mins</span></span></div>
<div data-testid="publisher"><span><span>Legacy Audio</span></span></div>
</body></html>`
	r, ok := Audible{}.Extract(context.Background(), page(t, "https://www.audible.co.uk/pd/B0LEGACY01", html))
	if !ok || r.Title != "Legacy Title" {
		t.Fatalf("title: %q", r.Title)
	}
	if r.PublishDate != "1999-03-15" {
		t.Fatalf("payload date should survive: %q", r.PublishDate)
	}
	if len(r.Authors) != 1 || r.Authors[0] != "Markup Author" || len(r.Narrators) != 1 {
		t.Fatalf("contributors: %v %v", r.Authors, r.Narrators)
	}
	if r.PageCount == nil || *r.PageCount != 7 || r.Publisher != "Legacy Audio" {
		t.Fatalf("runtime/publisher: %v %q", r.PageCount, r.Publisher)
	}
	if r.Identifiers.ASIN != "B0LEGACY01" {
		t.Fatalf("asin: %q", r.Identifiers.ASIN)
	}
}
