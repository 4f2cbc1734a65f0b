package evaluate

import (
	"fmt"
	"strings"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
)

// notFound is printed verbatim for any absent article field. The prompt
// never invents values.
const notFound = "Not found"

// BuildPrompt renders the deterministic evaluation prompt: the article's
// canonical fields, the weighted rubric and the output-shape contract. The
// report_type discriminator selects between the full and summary templates;
// the criterion structure and weights are identical in both.
func BuildPrompt(rec domain.CanonicalRecord, cfg config.EvaluationConfig) string {
	var b strings.Builder

	b.WriteString("You are an experienced SEO content auditor. Evaluate the blog article below against the weighted rubric and respond with a single JSON object.\n\n")

	writeArticle(&b, rec, cfg.OutputFormat.ReportType != "summary")
	writeCriteria(&b, cfg)
	writeCalibration(&b)
	writeContract(&b, cfg)

	return b.String()
}

func writeArticle(b *strings.Builder, rec domain.CanonicalRecord, full bool) {
	b.WriteString("ARTICLE\n")
	field(b, "Title", rec.Title)
	field(b, "URL", rec.URL)
	field(b, "Slug", rec.Slug)
	field(b, "Meta description", rec.MetaDescription)
	field(b, "Focus keyword", rec.FocusKeyword)
	field(b, "Canonical URL", rec.CanonicalURL)
	field(b, "Robots directives", rec.Robots)
	field(b, "Last modified", rec.LastModified)
	if rec.WordCount > 0 {
		fmt.Fprintf(b, "Word count: %d (about %d min read)\n", rec.WordCount, rec.ReadingTime)
	} else {
		field(b, "Word count", "")
	}

	if full {
		field(b, "Excerpt", rec.Excerpt)
		field(b, "Keywords", strings.Join(rec.Keywords, ", "))
		field(b, "Open Graph title", rec.OGTitle)
		field(b, "Open Graph description", rec.OGDescription)
		field(b, "Open Graph image", rec.OGImage)
		field(b, "Twitter title", rec.TwitterTitle)
		field(b, "Twitter description", rec.TwitterDescription)
		field(b, "Primary category", rec.PrimaryCategory)

		b.WriteString("Headings:\n")
		if len(rec.Headings) == 0 {
			b.WriteString("  " + notFound + "\n")
		}
		for _, h := range rec.Headings {
			fmt.Fprintf(b, "  H%d: %s\n", h.Level, h.Text)
		}
	}

	b.WriteString("Content:\n")
	if rec.Content == "" {
		b.WriteString(notFound + "\n")
	} else {
		b.WriteString(rec.Content + "\n")
	}
	b.WriteString("\n")
}

func writeCriteria(b *strings.Builder, cfg config.EvaluationConfig) {
	b.WriteString("CRITERIA (weights sum to 1.0)\n")
	for i, c := range cfg.Criteria {
		fmt.Fprintf(b, "%d. %s (weight %.2f): %s\n", i+1, c.Name, c.Weight, c.Description)
		if c.BaselineExpectations != "" {
			fmt.Fprintf(b, "   Baseline expectations: %s\n", c.BaselineExpectations)
		}
	}
	b.WriteString("\n")
}

func writeCalibration(b *strings.Builder) {
	b.WriteString("SCORING CALIBRATION\n")
	b.WriteString("Scores run 0-100. A typical published article lands between 55 and 85. ")
	b.WriteString("Reserve scores below 40 for seriously deficient content and above 90 for exceptional content. ")
	b.WriteString("A field marked \"Not found\" means the data was unavailable; judge what is present rather than punishing the gap twice.\n\n")
}

func writeContract(b *strings.Builder, cfg config.EvaluationConfig) {
	b.WriteString("OUTPUT\n")
	b.WriteString("Return exactly one JSON object and nothing else: no markdown fences, no commentary. The object must contain:\n")
	for _, c := range cfg.Criteria {
		fmt.Fprintf(b, "- %q: {\"score\": <0-100>, \"analysis\": \"...\", \"strengths\": [\"...\"], \"weaknesses\": [\"...\"], \"recommendations\": [\"...\"]}\n", c.Name)
	}
	b.WriteString("- \"overall_score\": <weighted 0-100 number>\n")
	b.WriteString("- \"optimization_recommendation\": \"Optimize\" or \"Not Optimize\"\n")
	b.WriteString("- \"update_priority\": \"high\", \"medium\" or \"low\"\n")
	b.WriteString("- \"priority_recommendations\": [\"the most actionable improvements, best first\"]\n")
	b.WriteString("Every criterion object and every score field is required.\n")
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		value = notFound
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
