package domain

import "time"

// ArticleSuccess records one completed article pipeline.
type ArticleSuccess struct {
	Identifier     ArticleIdentifier
	Slug           string
	Title          string
	OverallScore   float64
	Recommendation string
	ReportPath     string
}

// ArticleFailure records one article that could not be processed. Failures
// are recovered at the article boundary and never abort the batch.
type ArticleFailure struct {
	Identifier ArticleIdentifier
	Message    string
}

// BatchSummary aggregates a whole run for operator visibility.
type BatchSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Total     int
	Succeeded int
	Failed    int

	AverageScore float64
	MinScore     float64
	MaxScore     float64

	TopPerformers     []ArticleSuccess
	NeedsOptimization []ArticleSuccess

	Successes []ArticleSuccess
	Failures  []ArticleFailure
}
