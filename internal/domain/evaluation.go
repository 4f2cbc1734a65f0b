package domain

import (
	"math"
	"time"
)

// Criterion names for the six scoring dimensions.
const (
	CriterionEEAT           = "eeat"
	CriterionTechnical      = "technical"
	CriterionRelevance      = "relevance"
	CriterionTextQuality    = "text_quality"
	CriterionAIOptimization = "ai_optimization"
	CriterionFreshness      = "freshness"
)

// Criterion is one weighted scoring dimension of the rubric.
type Criterion struct {
	Name        string
	Weight      float64
	Description string
	Baseline    string
}

// DefaultCriteria returns the six dimensions with their fixed weights.
// The weights sum to exactly 1.0.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{
			Name:        CriterionEEAT,
			Weight:      0.20,
			Description: "Experience, Expertise, Authoritativeness and Trustworthiness signals",
			Baseline:    "Author attribution, first-hand experience, citations of credible sources, transparent publication dates.",
		},
		{
			Name:        CriterionTechnical,
			Weight:      0.10,
			Description: "Technical SEO: meta tags, canonical URL, robots directives, heading hierarchy",
			Baseline:    "Title under 60 characters, meta description 120-160 characters, a single H1, logical H2/H3 nesting, canonical URL present.",
		},
		{
			Name:        CriterionRelevance,
			Weight:      0.20,
			Description: "Topical relevance and search-intent match for the focus keyword",
			Baseline:    "Focus keyword in title, opening paragraph and at least one subheading; content answers the query the title promises.",
		},
		{
			Name:        CriterionTextQuality,
			Weight:      0.10,
			Description: "Readability, structure and language quality of the body text",
			Baseline:    "Short paragraphs, scannable subheadings, no filler, consistent tone, correct grammar.",
		},
		{
			Name:        CriterionAIOptimization,
			Weight:      0.25,
			Description: "Suitability for AI-driven search surfaces: direct answers, structured data, extractable facts",
			Baseline:    "Question-form subheadings with concise answers, lists and tables where appropriate, schema markup signals.",
		},
		{
			Name:        CriterionFreshness,
			Weight:      0.15,
			Description: "Content recency and maintenance signals",
			Baseline:    "Visible last-modified date, no outdated statistics or dead references, evergreen framing where possible.",
		},
	}
}

// CriterionResult holds the model's qualitative judgment for one dimension.
type CriterionResult struct {
	Score           float64  `json:"score"`
	Analysis        string   `json:"analysis"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Recommendation values for the binary optimization decision.
const (
	RecommendOptimize    = "Optimize"
	RecommendNotOptimize = "Not Optimize"
)

// Priority tiers derived from the recomputed overall score.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ScoredEvaluation is the validated outcome of one article evaluation.
// OverallScore is always the weighted recomputation over the six criterion
// scores, never the model's self-reported figure.
type ScoredEvaluation struct {
	Criteria                map[string]CriterionResult `json:"criteria"`
	OverallScore            float64                    `json:"overall_score"`
	Recommendation          string                     `json:"optimization_recommendation"`
	Priority                string                     `json:"update_priority"`
	PriorityRecommendations []string                   `json:"priority_recommendations"`
	EvaluatedAt             time.Time                  `json:"evaluated_at"`
	Model                   string                     `json:"model"`
}

// WeightedOverall computes the fixed-weight sum over per-criterion scores,
// rounded to two decimals.
func WeightedOverall(criteria []Criterion, results map[string]CriterionResult) float64 {
	var sum float64
	for _, c := range criteria {
		sum += c.Weight * results[c.Name].Score
	}
	return math.Round(sum*100) / 100
}
