package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
)

// Extractor projects tagged raw records into the canonical record shape and
// applies the configured field allow-list.
type Extractor struct {
	logger *slog.Logger
}

// New builds an extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract classifies the record shape, projects it into a canonical record
// and filters optional fields through the allow-list. The five essential
// fields survive regardless of configuration.
func (e *Extractor) Extract(src domain.SourceRecord, allow config.FieldSet) (domain.CanonicalRecord, error) {
	if len(src.Raw.Fields) == 0 {
		return domain.CanonicalRecord{}, fmt.Errorf("empty raw record")
	}

	shape := src.Raw.Shape
	if shape == domain.ShapeUnknown {
		shape = detectShape(src.Raw.Fields)
		if e.logger != nil {
			e.logger.Debug("classified untagged record", "shape", string(shape), "fields", len(src.Raw.Fields))
		}
	}

	var rec domain.CanonicalRecord
	switch shape {
	case domain.ShapeCMS:
		rec = e.projectCMS(src)
	case domain.ShapeScrape:
		rec = e.projectScrape(src.Raw.Fields)
	default:
		rec = e.projectGeneric(src.Raw.Fields)
	}

	return filterFields(rec, allow), nil
}

// detectShape classifies an untagged record by structural probing. The
// precedence is fixed: CMS, then scrape, then generic. A record can satisfy
// more than one predicate; the first match wins.
func detectShape(fields map[string]any) domain.RecordShape {
	if domain.Has(fields, "yoast_head_json") ||
		domain.Has(fields, "meta") ||
		(domain.Has(fields, "id") && domain.Has(fields, "slug") && domain.Has(fields, "link")) {
		return domain.ShapeCMS
	}
	if domain.Has(fields, "content", "text") {
		return domain.ShapeScrape
	}
	return domain.ShapeGeneric
}

func (e *Extractor) projectCMS(src domain.SourceRecord) domain.CanonicalRecord {
	fields := src.Raw.Fields
	seo := src.SEO

	rendered := domain.DigString(fields, "content", "rendered")
	if rendered == "" {
		rendered = domain.DigString(fields, "content")
	}
	title := domain.DigString(fields, "title", "rendered")
	if title == "" {
		title = domain.DigString(fields, "title")
	}
	excerpt := domain.DigString(fields, "excerpt", "rendered")
	if excerpt == "" {
		excerpt = domain.DigString(fields, "excerpt")
	}

	content := StripHTML(rendered)
	wc := WordCount(content)

	rec := domain.CanonicalRecord{
		PostID:  domain.DigString(fields, "id"),
		Slug:    domain.DigString(fields, "slug"),
		URL:     domain.DigString(fields, "link"),
		Title:   StripHTML(title),
		Content: content,

		HTML:            rendered,
		Excerpt:         StripHTML(excerpt),
		MetaDescription: seo.Description,
		Headings:        ScanHeadings(rendered),
		WordCount:       wc,
		ReadingTime:     ReadingTime(wc),
		LastModified:    domain.DigString(fields, "modified"),

		CanonicalURL:       seo.Canonical,
		Robots:             synthesizeRobots(seo.Robots, fields),
		OGTitle:            seo.OGTitle,
		OGDescription:      seo.OGDescription,
		OGImage:            seo.OGImage,
		TwitterTitle:       seo.TwitterTitle,
		TwitterDescription: seo.TwitterDescription,
		TwitterImage:       seo.TwitterImage,
		FocusKeyword:       seo.FocusKeyword,
		PrimaryCategory:    seo.PrimaryCategory,
	}

	if seo.FocusKeyword != "" {
		rec.Keywords = []string{seo.FocusKeyword}
	}
	return rec
}

func (e *Extractor) projectScrape(fields map[string]any) domain.CanonicalRecord {
	rendered := domain.DigString(fields, "content", "rendered")
	text := domain.DigString(fields, "content", "text")
	if text == "" {
		text = StripHTML(rendered)
	}
	pageURL := domain.DigString(fields, "url")
	slug := slugFromURL(pageURL)

	wc := WordCount(StripHTML(rendered))
	if wc == 0 {
		wc = WordCount(text)
	}

	headings := headingTuples(fields)
	if headings == nil {
		headings = ScanHeadings(rendered)
	}

	rec := domain.CanonicalRecord{
		PostID:  slug,
		Slug:    slug,
		URL:     pageURL,
		Title:   domain.DigString(fields, "title"),
		Content: text,

		HTML:            rendered,
		MetaDescription: firstMeta(fields, "description", "og:description"),
		Keywords:        splitKeywords(domain.DigString(fields, "meta", "keywords")),
		Headings:        headings,
		WordCount:       wc,
		ReadingTime:     ReadingTime(wc),
		LastModified:    firstMeta(fields, "article:modified_time", "og:updated_time"),

		CanonicalURL:       domain.DigString(fields, "meta", "canonical"),
		Robots:             domain.DigString(fields, "meta", "robots"),
		OGTitle:            domain.DigString(fields, "meta", "og:title"),
		OGDescription:      domain.DigString(fields, "meta", "og:description"),
		OGImage:            domain.DigString(fields, "meta", "og:image"),
		TwitterTitle:       domain.DigString(fields, "meta", "twitter:title"),
		TwitterDescription: domain.DigString(fields, "meta", "twitter:description"),
		TwitterImage:       domain.DigString(fields, "meta", "twitter:image"),
	}
	return rec
}

func (e *Extractor) projectGeneric(fields map[string]any) domain.CanonicalRecord {
	rendered := domain.DigString(fields, "content")
	content := StripHTML(rendered)
	wc := WordCount(content)

	pageURL := domain.DigString(fields, "url")
	if pageURL == "" {
		pageURL = domain.DigString(fields, "link")
	}
	slug := domain.DigString(fields, "slug")
	if slug == "" {
		slug = slugFromURL(pageURL)
	}
	postID := domain.DigString(fields, "id")
	if postID == "" {
		postID = slug
	}

	return domain.CanonicalRecord{
		PostID:  postID,
		Slug:    slug,
		URL:     pageURL,
		Title:   StripHTML(domain.DigString(fields, "title")),
		Content: content,

		HTML:            rendered,
		Excerpt:         StripHTML(domain.DigString(fields, "excerpt")),
		MetaDescription: domain.DigString(fields, "description"),
		Headings:        ScanHeadings(rendered),
		WordCount:       wc,
		ReadingTime:     ReadingTime(wc),
	}
}

// headingTuples reads pre-extracted {level, text} pairs from a scrape record.
func headingTuples(fields map[string]any) []domain.Heading {
	raw := domain.DigSlice(fields, "headings")
	if raw == nil {
		return nil
	}
	headings := make([]domain.Heading, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		level, ok := m["level"].(float64)
		text, _ := m["text"].(string)
		if !ok || text == "" {
			continue
		}
		headings = append(headings, domain.Heading{Level: int(level), Text: text})
	}
	if len(headings) == 0 {
		return nil
	}
	return headings
}

func firstMeta(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := domain.DigString(fields, "meta", key); v != "" {
			return v
		}
	}
	return ""
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

func slugFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}
	segments := strings.Split(path, "/")
	return segments[len(segments)-1]
}

// filterFields applies the allow-list with an exhaustive field-by-field copy.
// The essential fields are always carried over.
func filterFields(rec domain.CanonicalRecord, allow config.FieldSet) domain.CanonicalRecord {
	out := domain.CanonicalRecord{
		PostID:  rec.PostID,
		Slug:    rec.Slug,
		URL:     rec.URL,
		Title:   rec.Title,
		Content: rec.Content,
	}

	if allow.Enabled("html") {
		out.HTML = rec.HTML
	}
	if allow.Enabled("excerpt") {
		out.Excerpt = rec.Excerpt
	}
	if allow.Enabled("meta_description") {
		out.MetaDescription = rec.MetaDescription
	}
	if allow.Enabled("keywords") {
		out.Keywords = rec.Keywords
	}
	if allow.Enabled("headings") {
		out.Headings = rec.Headings
	}
	if allow.Enabled("word_count") {
		out.WordCount = rec.WordCount
	}
	if allow.Enabled("reading_time") {
		out.ReadingTime = rec.ReadingTime
	}
	if allow.Enabled("last_modified") {
		out.LastModified = rec.LastModified
	}
	if allow.Enabled("canonical_url") {
		out.CanonicalURL = rec.CanonicalURL
	}
	if allow.Enabled("robots") {
		out.Robots = rec.Robots
	}
	if allow.Enabled("og_title") {
		out.OGTitle = rec.OGTitle
	}
	if allow.Enabled("og_description") {
		out.OGDescription = rec.OGDescription
	}
	if allow.Enabled("og_image") {
		out.OGImage = rec.OGImage
	}
	if allow.Enabled("twitter_title") {
		out.TwitterTitle = rec.TwitterTitle
	}
	if allow.Enabled("twitter_description") {
		out.TwitterDescription = rec.TwitterDescription
	}
	if allow.Enabled("twitter_image") {
		out.TwitterImage = rec.TwitterImage
	}
	if allow.Enabled("focus_keyword") {
		out.FocusKeyword = rec.FocusKeyword
	}
	if allow.Enabled("primary_category") {
		out.PrimaryCategory = rec.PrimaryCategory
	}
	return out
}
