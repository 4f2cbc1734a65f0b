package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// IdentifierKind discriminates how an article is addressed upstream.
type IdentifierKind string

const (
	IdentifierSlug IdentifierKind = "slug"
	IdentifierID   IdentifierKind = "id"

	// IdentifierURL labels raw URLs on the scrape path, which bypasses the
	// CMS adapter entirely.
	IdentifierURL IdentifierKind = "url"
)

// ArticleIdentifier names one requested article. Built once per article,
// consumed by the content source adapter.
type ArticleIdentifier struct {
	Kind  IdentifierKind
	Value string
}

func (a ArticleIdentifier) String() string {
	return fmt.Sprintf("%s:%s", a.Kind, a.Value)
}

// ParseIdentifier classifies a raw CLI token: all-digit tokens are numeric
// ids, everything else is a slug.
func ParseIdentifier(raw string) ArticleIdentifier {
	raw = strings.TrimSpace(raw)
	if raw != "" && strings.IndexFunc(raw, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		return ArticleIdentifier{Kind: IdentifierID, Value: raw}
	}
	return ArticleIdentifier{Kind: IdentifierSlug, Value: raw}
}

// RecordShape tags which upstream producer a raw record came from.
type RecordShape string

const (
	ShapeUnknown RecordShape = ""
	ShapeCMS     RecordShape = "cms"
	ShapeScrape  RecordShape = "scrape"
	ShapeGeneric RecordShape = "generic"
)

// RawRecord is the untyped payload of one upstream producer, tagged with its
// shape by the adapter that built it. Records from untagged paths keep
// ShapeUnknown and are classified structurally by the extractor.
type RawRecord struct {
	Shape  RecordShape
	Fields map[string]any
}

// RobotsMeta carries the per-sub-directive robots values resolved from the
// structured SEO block, with zero values meaning "not set there".
type RobotsMeta struct {
	Index           string
	Follow          string
	Archive         string
	Snippet         string
	ImageIndex      string
	MaxSnippet      string
	MaxImagePreview string
	MaxVideoPreview string
}

// SEOMeta is the adapter-normalized SEO metadata view: the structured plugin
// block wins per field, legacy flat meta keys fill the gaps.
type SEOMeta struct {
	Title              string
	Description        string
	Canonical          string
	FocusKeyword       string
	OGTitle            string
	OGDescription      string
	OGImage            string
	TwitterTitle       string
	TwitterDescription string
	TwitterImage       string
	PrimaryCategory    string
	Robots             RobotsMeta
}

// SourceRecord is what a content source hands downstream: the tagged original
// payload (kept for diagnostics) plus the normalized SEO view. SEO is the
// zero value for producers without plugin metadata.
type SourceRecord struct {
	Raw RawRecord
	SEO SEOMeta
}

// Heading is one document-order heading extracted from rendered HTML.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// CanonicalRecord is the normalized projection every downstream component
// depends on. PostID, Slug, URL, Title and Content are always populated;
// everything else is subject to the extraction allow-list.
type CanonicalRecord struct {
	PostID  string `json:"post_id"`
	Slug    string `json:"slug"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`

	HTML            string    `json:"html,omitempty"`
	Excerpt         string    `json:"excerpt,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Keywords        []string  `json:"keywords,omitempty"`
	Headings        []Heading `json:"headings,omitempty"`
	WordCount       int       `json:"word_count,omitempty"`
	ReadingTime     int       `json:"reading_time,omitempty"`
	LastModified    string    `json:"last_modified,omitempty"`

	CanonicalURL       string `json:"canonical_url,omitempty"`
	Robots             string `json:"robots,omitempty"`
	OGTitle            string `json:"og_title,omitempty"`
	OGDescription      string `json:"og_description,omitempty"`
	OGImage            string `json:"og_image,omitempty"`
	TwitterTitle       string `json:"twitter_title,omitempty"`
	TwitterDescription string `json:"twitter_description,omitempty"`
	TwitterImage       string `json:"twitter_image,omitempty"`
	FocusKeyword       string `json:"focus_keyword,omitempty"`
	PrimaryCategory    string `json:"primary_category,omitempty"`
}
