package extract

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"seoaudit/internal/domain"
)

var (
	tagRe        = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	headingRe    = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]\s*>`)
)

// StripHTML collapses every tag to a single space, collapses repeated
// whitespace and trims. Entities are unescaped so rendered titles read clean.
func StripHTML(rendered string) string {
	text := tagRe.ReplaceAllString(rendered, " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ScanHeadings extracts {level, text} tuples from rendered HTML in document
// order. The rendered markup is scanned, not the plain text, so heading
// levels survive.
func ScanHeadings(rendered string) []domain.Heading {
	matches := headingRe.FindAllStringSubmatch(rendered, -1)
	if len(matches) == 0 {
		return nil
	}
	headings := make([]domain.Heading, 0, len(matches))
	for _, m := range matches {
		level, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		text := StripHTML(m[2])
		if text == "" {
			continue
		}
		headings = append(headings, domain.Heading{Level: level, Text: text})
	}
	return headings
}

// WordCount whitespace-splits the text stripped from the rendered body.
func WordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// ReadingTime estimates minutes at 200 words per minute, rounding up.
// A 200-word body reads in 1 minute; 201 words tip into 2.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + 199) / 200
}
