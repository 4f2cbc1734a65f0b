package report

import (
	"fmt"
	"sort"
	"strings"

	"seoaudit/internal/domain"
)

// criterionOrder fixes the section order in rendered reports regardless of
// map iteration order.
var criterionOrder = []string{
	domain.CriterionEEAT,
	domain.CriterionTechnical,
	domain.CriterionRelevance,
	domain.CriterionTextQuality,
	domain.CriterionAIOptimization,
	domain.CriterionFreshness,
}

var criterionTitles = map[string]string{
	domain.CriterionEEAT:           "E-E-A-T",
	domain.CriterionTechnical:      "Technical SEO",
	domain.CriterionRelevance:      "Relevance",
	domain.CriterionTextQuality:    "Text Quality",
	domain.CriterionAIOptimization: "AI Optimization",
	domain.CriterionFreshness:      "Freshness",
}

// orderedCriteria yields the known criteria first, then any extra configured
// dimensions alphabetically.
func orderedCriteria(eval domain.ScoredEvaluation) []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range criterionOrder {
		if _, ok := eval.Criteria[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range eval.Criteria {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func criterionTitle(name string) string {
	if title, ok := criterionTitles[name]; ok {
		return title
	}
	return name
}

func renderAnalysisReport(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# SEO Analysis Report: %s\n\n", rec.Title)
	fmt.Fprintf(&b, "- **URL:** %s\n", rec.URL)
	fmt.Fprintf(&b, "- **Slug:** %s\n", rec.Slug)
	fmt.Fprintf(&b, "- **Overall score:** %.1f / 100\n", eval.OverallScore)
	fmt.Fprintf(&b, "- **Recommendation:** %s\n", eval.Recommendation)
	fmt.Fprintf(&b, "- **Update priority:** %s\n", eval.Priority)
	fmt.Fprintf(&b, "- **Model:** %s\n", eval.Model)
	fmt.Fprintf(&b, "- **Evaluated:** %s\n\n", eval.EvaluatedAt.Format("2006-01-02 15:04 UTC"))

	if rec.WordCount > 0 {
		fmt.Fprintf(&b, "%d words, about %d min read.\n\n", rec.WordCount, rec.ReadingTime)
	}

	b.WriteString("## Scores by criterion\n\n")
	b.WriteString("| Criterion | Score |\n|---|---|\n")
	for _, name := range orderedCriteria(eval) {
		fmt.Fprintf(&b, "| %s | %.1f |\n", criterionTitle(name), eval.Criteria[name].Score)
	}
	b.WriteString("\n")

	for _, name := range orderedCriteria(eval) {
		r := eval.Criteria[name]
		fmt.Fprintf(&b, "## %s — %.1f\n\n", criterionTitle(name), r.Score)
		if r.Analysis != "" {
			b.WriteString(r.Analysis + "\n\n")
		}
		writeList(&b, "Strengths", r.Strengths)
		writeList(&b, "Weaknesses", r.Weaknesses)
		writeList(&b, "Recommendations", r.Recommendations)
	}

	return b.String()
}

func renderExecutiveSummary(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Executive Summary: %s\n\n", rec.Title)
	fmt.Fprintf(&b, "Overall score **%.1f / 100** — **%s** (priority: %s).\n\n",
		eval.OverallScore, eval.Recommendation, eval.Priority)

	if strengths := topStrengths(eval); len(strengths) > 0 {
		writeList(&b, "What works", strengths)
	}
	if issues := criticalIssues(eval); len(issues) > 0 {
		writeList(&b, "What needs attention", issues)
	}
	if len(eval.PriorityRecommendations) > 0 {
		writeList(&b, "Next actions", eval.PriorityRecommendations)
	}

	return b.String()
}

func renderCreatorGuide(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Content Creator Guide: %s\n\n", rec.Title)
	b.WriteString("Work through the items below, weakest area first.\n\n")

	names := orderedCriteria(eval)
	sort.SliceStable(names, func(i, j int) bool {
		return eval.Criteria[names[i]].Score < eval.Criteria[names[j]].Score
	})

	for _, name := range names {
		r := eval.Criteria[name]
		if len(r.Recommendations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%.1f)\n\n", criterionTitle(name), r.Score)
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- [ ] %s\n", rec)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
