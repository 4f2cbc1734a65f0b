package ports

import (
	"context"

	"seoaudit/internal/domain"
)

// ContentSource fetches one article's raw record from an upstream producer.
type ContentSource interface {
	FetchArticle(ctx context.Context, id domain.ArticleIdentifier) (domain.SourceRecord, error)
}

// Scraper fetches an arbitrary webpage and produces a scrape-shaped record.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (domain.SourceRecord, error)
}

// Evaluator scores a canonical record against the weighted rubric.
type Evaluator interface {
	Evaluate(ctx context.Context, rec domain.CanonicalRecord) (domain.ScoredEvaluation, error)
}

// TextGenerator sends one prompt to a generative text API and returns the
// raw model text. Implementations do not retry; backoff is the caller's call.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// ReportWriter persists the per-article report set and appends to the
// run-level CSV summary. AppendSummaryRow is safe for concurrent use.
type ReportWriter interface {
	WriteArticle(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) (string, error)
	AppendSummaryRow(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) error
}
