package extract

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
)

func cmsFields() map[string]any {
	return map[string]any{
		"id":       float64(42),
		"slug":     "go-testing-guide",
		"link":     "https://blog.example.com/go-testing-guide",
		"title":    map[string]any{"rendered": "A &amp; B Guide"},
		"content":  map[string]any{"rendered": "<h2>Setup</h2><p>one two three</p>"},
		"excerpt":  map[string]any{"rendered": "<p>short</p>"},
		"modified": "2025-06-01T10:00:00",
		"meta": map[string]any{
			"_yoast_wpseo_focuskw": "go testing",
		},
	}
}

func TestDetectShapePrecedence(t *testing.T) {
	t.Parallel()

	// A record satisfying both the CMS and the scrape predicate must be
	// classified CMS: the precedence order is fixed.
	both := map[string]any{
		"meta":    map[string]any{"description": "x"},
		"content": map[string]any{"text": "plain", "rendered": "<p>plain</p>"},
	}
	assert.Equal(t, domain.ShapeCMS, detectShape(both))

	scrapeOnly := map[string]any{
		"content": map[string]any{"text": "plain"},
	}
	assert.Equal(t, domain.ShapeScrape, detectShape(scrapeOnly))

	assert.Equal(t, domain.ShapeGeneric, detectShape(map[string]any{"title": "x"}))

	triad := map[string]any{"id": float64(1), "slug": "a", "link": "https://x"}
	assert.Equal(t, domain.ShapeCMS, detectShape(triad))
}

func TestExtractEssentialsSurviveEmptyAllowList(t *testing.T) {
	t.Parallel()

	e := New(nil)
	src := domain.SourceRecord{Raw: domain.RawRecord{Shape: domain.ShapeCMS, Fields: cmsFields()}}

	rec, err := e.Extract(src, config.FieldSet{}) // every optional field disabled
	require.NoError(t, err)

	assert.Equal(t, "42", rec.PostID)
	assert.Equal(t, "go-testing-guide", rec.Slug)
	assert.Equal(t, "https://blog.example.com/go-testing-guide", rec.URL)
	assert.Equal(t, "A & B Guide", rec.Title)
	assert.Equal(t, "Setup one two three", rec.Content)

	assert.Empty(t, rec.HTML)
	assert.Empty(t, rec.Headings)
	assert.Zero(t, rec.WordCount)
	assert.Empty(t, rec.Robots)
}

func TestExtractIdempotent(t *testing.T) {
	t.Parallel()

	e := New(nil)
	src := domain.SourceRecord{Raw: domain.RawRecord{Shape: domain.ShapeCMS, Fields: cmsFields()}}
	allow := config.DefaultFieldSet()

	first, err := e.Extract(src, allow)
	require.NoError(t, err)
	second, err := e.Extract(src, allow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanHeadingsDocumentOrder(t *testing.T) {
	t.Parallel()

	headings := ScanHeadings(`<h2>A</h2><p>x</p><h3>B</h3>`)
	require.Len(t, headings, 2)
	assert.Equal(t, domain.Heading{Level: 2, Text: "A"}, headings[0])
	assert.Equal(t, domain.Heading{Level: 3, Text: "B"}, headings[1])
}

func TestScanHeadingsStripsInnerMarkup(t *testing.T) {
	t.Parallel()

	headings := ScanHeadings(`<h1 class="title"><em>Hello</em> world</h1>`)
	require.Len(t, headings, 1)
	assert.Equal(t, domain.Heading{Level: 1, Text: "Hello world"}, headings[0])
}

func TestReadingTimeBoundary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ReadingTime(200))
	assert.Equal(t, 2, ReadingTime(201))
	assert.Equal(t, 1, ReadingTime(1))
	assert.Equal(t, 0, ReadingTime(0))
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "one two three", StripHTML("<p>one</p><p>two\n\nthree</p>"))
	assert.Equal(t, "a & b", StripHTML("a &amp; b"))
	assert.Equal(t, "", StripHTML("<div><span></span></div>"))
}

func TestExtractScrapeShape(t *testing.T) {
	t.Parallel()

	e := New(nil)
	fields := map[string]any{
		"url":   "https://example.com/posts/widget-review/",
		"title": "Widget Review",
		"content": map[string]any{
			"rendered": "<article><h2>Verdict</h2><p>good stuff here</p></article>",
			"text":     "Verdict good stuff here",
		},
		"meta": map[string]any{
			"description": "A widget review",
			"keywords":    "widgets, reviews",
			"robots":      "index, follow",
			"og:title":    "Widget Review OG",
		},
		"headings": []any{
			map[string]any{"level": float64(2), "text": "Verdict"},
		},
	}
	src := domain.SourceRecord{Raw: domain.RawRecord{Shape: domain.ShapeScrape, Fields: fields}}

	rec, err := e.Extract(src, config.DefaultFieldSet())
	require.NoError(t, err)

	assert.Equal(t, "widget-review", rec.Slug)
	assert.Equal(t, "widget-review", rec.PostID)
	assert.Equal(t, "Verdict good stuff here", rec.Content)
	assert.Equal(t, "A widget review", rec.MetaDescription)
	assert.Equal(t, []string{"widgets", "reviews"}, rec.Keywords)
	assert.Equal(t, "index, follow", rec.Robots)
	assert.Equal(t, "Widget Review OG", rec.OGTitle)
	require.Len(t, rec.Headings, 1)
	assert.Equal(t, domain.Heading{Level: 2, Text: "Verdict"}, rec.Headings[0])
}

func TestExtractGenericFallback(t *testing.T) {
	t.Parallel()

	e := New(nil)
	fields := map[string]any{
		"title":   "Plain Thing",
		"content": "<p>just text</p>",
		"url":     "https://example.com/plain-thing",
	}
	src := domain.SourceRecord{Raw: domain.RawRecord{Fields: fields}}

	rec, err := e.Extract(src, config.DefaultFieldSet())
	require.NoError(t, err)

	assert.Equal(t, "plain-thing", rec.Slug)
	assert.Equal(t, "Plain Thing", rec.Title)
	assert.Equal(t, "just text", rec.Content)
}

func TestExtractLogsClassificationOfUntaggedRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(logger)

	src := domain.SourceRecord{Raw: domain.RawRecord{Fields: cmsFields()}}
	_, err := e.Extract(src, config.DefaultFieldSet())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "shape=cms")

	// Tagged records skip structural probing and stay quiet.
	buf.Reset()
	src.Raw.Shape = domain.ShapeCMS
	_, err = e.Extract(src, config.DefaultFieldSet())
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestExtractEmptyRecord(t *testing.T) {
	t.Parallel()

	e := New(nil)
	_, err := e.Extract(domain.SourceRecord{}, config.DefaultFieldSet())
	require.Error(t, err)
}
