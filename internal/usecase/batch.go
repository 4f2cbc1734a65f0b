package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
	"seoaudit/internal/extract"
	"seoaudit/internal/ports"
)

const defaultBatchSize = 3

// Task is one article work item: a CMS identifier, or a raw URL for the
// scrape path when URL is non-empty.
type Task struct {
	Identifier domain.ArticleIdentifier
	URL        string
}

func (t Task) label() domain.ArticleIdentifier {
	if t.URL != "" {
		return domain.ArticleIdentifier{Kind: domain.IdentifierURL, Value: t.URL}
	}
	return t.Identifier
}

// BatchDeps wires the adapters into the orchestrator.
type BatchDeps struct {
	Source    ports.ContentSource
	Scraper   ports.Scraper
	Extractor *extract.Extractor
	Evaluator ports.Evaluator
	Reports   ports.ReportWriter
	Fields    config.FieldSet
	RunID     string
	Logger    *slog.Logger
}

// Batch drives many article pipelines with bounded concurrency. Chunks run
// strictly sequentially; within a chunk every article runs independently and
// failures are recovered at the article boundary.
type Batch struct {
	source    ports.ContentSource
	scraper   ports.Scraper
	extractor *extract.Extractor
	evaluator ports.Evaluator
	reports   ports.ReportWriter
	fields    config.FieldSet
	runID     string
	logger    *slog.Logger
}

// NewBatch constructs the orchestrator.
func NewBatch(deps BatchDeps) *Batch {
	return &Batch{
		source:    deps.Source,
		scraper:   deps.Scraper,
		extractor: deps.Extractor,
		evaluator: deps.Evaluator,
		reports:   deps.Reports,
		fields:    deps.Fields,
		runID:     deps.RunID,
		logger:    deps.Logger,
	}
}

// Run processes the tasks in contiguous chunks of batchSize. Chunk N+1 does
// not start until every member of chunk N has settled, which bounds peak
// concurrent external requests to batchSize.
func (b *Batch) Run(ctx context.Context, tasks []Task, batchSize int) domain.BatchSummary {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	started := time.Now().UTC()
	var mu sync.Mutex
	var successes []domain.ArticleSuccess
	var failures []domain.ArticleFailure

	for offset := 0; offset < len(tasks); offset += batchSize {
		end := offset + batchSize
		if end > len(tasks) {
			end = len(tasks)
		}
		chunk := tasks[offset:end]

		b.info("processing chunk", "from", offset, "size", len(chunk), "total", len(tasks))

		var wg sync.WaitGroup
		for _, task := range chunk {
			wg.Add(1)
			go func(task Task) {
				defer wg.Done()
				success, err := b.processOne(ctx, task)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					b.warn("article failed", "identifier", task.label().String(), "error", err)
					failures = append(failures, domain.ArticleFailure{
						Identifier: task.label(),
						Message:    err.Error(),
					})
					return
				}
				successes = append(successes, success)
			}(task)
		}
		wg.Wait()
	}

	return b.summarize(started, len(tasks), successes, failures)
}

// processOne runs one article's full pipeline. A panic in any stage is
// recovered into a failure record so siblings keep running.
func (b *Batch) processOne(ctx context.Context, task Task) (success domain.ArticleSuccess, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var src domain.SourceRecord
	if task.URL != "" {
		src, err = b.scraper.Scrape(ctx, task.URL)
	} else {
		src, err = b.source.FetchArticle(ctx, task.Identifier)
	}
	if err != nil {
		return domain.ArticleSuccess{}, fmt.Errorf("fetch: %w", err)
	}

	rec, err := b.extractor.Extract(src, b.fields)
	if err != nil {
		return domain.ArticleSuccess{}, fmt.Errorf("extract: %w", err)
	}

	eval, err := b.evaluator.Evaluate(ctx, rec)
	if err != nil {
		return domain.ArticleSuccess{}, fmt.Errorf("evaluate: %w", err)
	}

	path, err := b.reports.WriteArticle(rec, eval)
	if err != nil {
		return domain.ArticleSuccess{}, fmt.Errorf("write report: %w", err)
	}
	if err := b.reports.AppendSummaryRow(rec, eval); err != nil {
		// The per-article report set is already on disk; a summary row
		// failure should not discard the article.
		b.warn("append summary row failed", "slug", rec.Slug, "error", err)
	}

	return domain.ArticleSuccess{
		Identifier:     task.label(),
		Slug:           rec.Slug,
		Title:          rec.Title,
		OverallScore:   eval.OverallScore,
		Recommendation: eval.Recommendation,
		ReportPath:     path,
	}, nil
}

func (b *Batch) summarize(started time.Time, total int, successes []domain.ArticleSuccess, failures []domain.ArticleFailure) domain.BatchSummary {
	summary := domain.BatchSummary{
		RunID:      b.runID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Total:      total,
		Succeeded:  len(successes),
		Failed:     len(failures),
		Successes:  successes,
		Failures:   failures,
	}

	if len(successes) > 0 {
		summary.MinScore = successes[0].OverallScore
		summary.MaxScore = successes[0].OverallScore
		var sum float64
		for _, s := range successes {
			sum += s.OverallScore
			if s.OverallScore < summary.MinScore {
				summary.MinScore = s.OverallScore
			}
			if s.OverallScore > summary.MaxScore {
				summary.MaxScore = s.OverallScore
			}
		}
		summary.AverageScore = sum / float64(len(successes))

		ranked := make([]domain.ArticleSuccess, len(successes))
		copy(ranked, successes)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].OverallScore > ranked[j].OverallScore
		})

		top := 3
		if top > len(ranked) {
			top = len(ranked)
		}
		summary.TopPerformers = ranked[:top]

		for i := len(ranked) - 1; i >= 0 && len(summary.NeedsOptimization) < 3; i-- {
			if ranked[i].Recommendation == domain.RecommendOptimize {
				summary.NeedsOptimization = append(summary.NeedsOptimization, ranked[i])
			}
		}
	}

	return summary
}

func (b *Batch) info(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Info(msg, args...)
	}
}

func (b *Batch) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}
