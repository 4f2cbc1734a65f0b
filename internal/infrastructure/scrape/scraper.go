package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"seoaudit/internal/domain"
	"seoaudit/internal/ports"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	headingTagRe = regexp.MustCompile(`^h([1-6])$`)
)

// Scraper fetches arbitrary webpages and produces scrape-shaped raw records
// for the non-CMS evaluation path.
type Scraper struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Scraper = (*Scraper)(nil)

// New wires an HTTP client; a nil client gets a 30s timeout.
func New(client *http.Client, logger *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scraper{client: client, logger: logger}
}

// Scrape downloads the page, decodes it to UTF-8 and projects the DOM into
// a scrape-shaped record: a {rendered, text} body pair, a flat meta map,
// ordered heading tuples and a schema-markup block.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (domain.SourceRecord, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return domain.SourceRecord{}, fmt.Errorf("invalid url %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.SourceRecord{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "seoaudit/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.SourceRecord{}, fmt.Errorf("%w: get %s: %v", domain.ErrConnectivity, pageURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.SourceRecord{}, fmt.Errorf("%w: %s", domain.ErrNotFound, pageURL)
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.SourceRecord{}, fmt.Errorf("%w: %s returned %s", domain.ErrGateway, pageURL, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.SourceRecord{}, fmt.Errorf("%w: %s returned %s", domain.ErrAPI, pageURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SourceRecord{}, fmt.Errorf("read body: %w", err)
	}

	utf8data, err := decodeUTF8(data, resp.Header.Get("Content-Type"))
	if err != nil {
		return domain.SourceRecord{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return domain.SourceRecord{}, fmt.Errorf("parse document: %w", err)
	}

	fields := s.project(doc, pageURL)
	return domain.SourceRecord{
		Raw: domain.RawRecord{Shape: domain.ShapeScrape, Fields: fields},
	}, nil
}

func decodeUTF8(data []byte, contentType string) ([]byte, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if utf8.Valid(data) {
			return data, nil
		}
		return nil, fmt.Errorf("decode page to utf-8: %w", err)
	}
	return decoded, nil
}

func (s *Scraper) project(doc *goquery.Document, pageURL string) map[string]any {
	// Schema signals are read before script removal strips the JSON-LD nodes.
	schema := map[string]any{
		"has_json_ld":  doc.Find(`script[type="application/ld+json"]`).Length() > 0,
		"has_og_tags":  doc.Find(`meta[property^="og:"]`).Length() > 0,
		"has_twitter":  doc.Find(`meta[name^="twitter:"]`).Length() > 0,
		"has_viewport": doc.Find(`meta[name="viewport"]`).Length() > 0,
	}

	doc.Find("script,noscript,style").Each(func(_ int, sel *goquery.Selection) {
		sel.Remove()
	})

	meta := map[string]any{}
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key := sel.AttrOr("name", sel.AttrOr("property", ""))
		content := sel.AttrOr("content", "")
		if key != "" && content != "" {
			meta[key] = content
		}
	})
	if canonical := doc.Find(`link[rel="canonical"]`).AttrOr("href", ""); canonical != "" {
		meta["canonical"] = canonical
	}

	var headings []any
	doc.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		m := headingTagRe.FindStringSubmatch(goquery.NodeName(sel))
		if m == nil {
			return
		}
		headings = append(headings, map[string]any{
			"level": float64(m[1][0] - '0'),
			"text":  text,
		})
	})

	body := doc.Find("article").First()
	if body.Length() == 0 {
		body = doc.Find("main").First()
	}
	if body.Length() == 0 {
		body = doc.Find("body").First()
	}
	rendered, _ := goquery.OuterHtml(body)
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(body.Text(), " "))

	return map[string]any{
		"url":   pageURL,
		"title": strings.TrimSpace(doc.Find("title").First().Text()),
		"content": map[string]any{
			"rendered": rendered,
			"text":     text,
		},
		"meta":            meta,
		"headings":        headings,
		"schema_analysis": schema,
	}
}
