package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
	"seoaudit/internal/extract"
)

type fakeSource struct {
	failing map[string]error

	// reports, when set, lets each fetch record how many articles had fully
	// completed their pipeline when the fetch started.
	reports *fakeReports

	mu            sync.Mutex
	inFlight      int32
	maxFlight     int32
	fetchCount    int
	completedSeen map[string]int
}

func (f *fakeSource) FetchArticle(_ context.Context, id domain.ArticleIdentifier) (domain.SourceRecord, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxFlight)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxFlight, max, cur) {
			break
		}
	}

	f.mu.Lock()
	f.fetchCount++
	if f.reports != nil {
		if f.completedSeen == nil {
			f.completedSeen = map[string]int{}
		}
		f.completedSeen[id.Value] = f.reports.completed()
	}
	f.mu.Unlock()

	if err, ok := f.failing[id.Value]; ok {
		return domain.SourceRecord{}, err
	}
	return domain.SourceRecord{Raw: domain.RawRecord{Fields: map[string]any{
		"id":      float64(1),
		"slug":    id.Value,
		"link":    "https://blog.example.com/" + id.Value,
		"title":   map[string]any{"rendered": "Title " + id.Value},
		"content": map[string]any{"rendered": "<p>body of " + id.Value + "</p>"},
	}}}, nil
}

type fakeEvaluator struct {
	scores map[string]float64
	panics map[string]bool
}

func (f *fakeEvaluator) Evaluate(_ context.Context, rec domain.CanonicalRecord) (domain.ScoredEvaluation, error) {
	if f.panics[rec.Slug] {
		panic("evaluator blew up on " + rec.Slug)
	}
	score, ok := f.scores[rec.Slug]
	if !ok {
		score = 70
	}
	eval := domain.ScoredEvaluation{
		OverallScore:   score,
		Recommendation: domain.RecommendNotOptimize,
		Priority:       domain.PriorityLow,
		Model:          "fake",
	}
	if score < 75 {
		eval.Recommendation = domain.RecommendOptimize
	}
	return eval, nil
}

type fakeReports struct {
	mu       sync.Mutex
	articles []string
	rows     []string
	rowErr   error
}

func (f *fakeReports) WriteArticle(rec domain.CanonicalRecord, _ domain.ScoredEvaluation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.articles = append(f.articles, rec.Slug)
	return "reports/" + rec.Slug, nil
}

func (f *fakeReports) AppendSummaryRow(rec domain.CanonicalRecord, _ domain.ScoredEvaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rowErr != nil {
		return f.rowErr
	}
	f.rows = append(f.rows, rec.Slug)
	return nil
}

func (f *fakeReports) completed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func newTestBatch(source *fakeSource, eval *fakeEvaluator, reports *fakeReports) *Batch {
	return NewBatch(BatchDeps{
		Source:    source,
		Extractor: extract.New(nil),
		Evaluator: eval,
		Reports:   reports,
		Fields:    config.DefaultFieldSet(),
		RunID:     "run-1",
	})
}

func slugTasks(slugs ...string) []Task {
	tasks := make([]Task, 0, len(slugs))
	for _, s := range slugs {
		tasks = append(tasks, Task{Identifier: domain.ArticleIdentifier{Kind: domain.IdentifierSlug, Value: s}})
	}
	return tasks
}

func TestBatchFailureIsolation(t *testing.T) {
	t.Parallel()

	source := &fakeSource{failing: map[string]error{
		"gone": fmt.Errorf("%w: no post for slug", domain.ErrNotFound),
	}}
	reports := &fakeReports{}
	b := newTestBatch(source, &fakeEvaluator{}, reports)

	summary := b.Run(context.Background(), slugTasks("a", "b", "gone", "c", "d"), 3)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 4, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "gone", summary.Failures[0].Identifier.Value)
	assert.Contains(t, summary.Failures[0].Message, "fetch")
	assert.Len(t, reports.articles, 4)
}

func TestBatchChunksRunSequentially(t *testing.T) {
	t.Parallel()

	reports := &fakeReports{}
	source := &fakeSource{reports: reports}
	b := newTestBatch(source, &fakeEvaluator{}, reports)

	// Five tasks at size 2 split into chunks [a,b], [c,d], [e]. A chunk may
	// not start until every member of the previous chunk has settled, so at
	// fetch time each task must observe all prior chunks completed and at
	// most its own chunk siblings.
	summary := b.Run(context.Background(), slugTasks("a", "b", "c", "d", "e"), 2)

	assert.Equal(t, 5, summary.Succeeded)
	assert.Equal(t, 5, source.fetchCount)
	assert.LessOrEqual(t, source.maxFlight, int32(2))

	seen := source.completedSeen
	require.Len(t, seen, 5)
	assert.LessOrEqual(t, seen["a"], 1)
	assert.LessOrEqual(t, seen["b"], 1)
	assert.GreaterOrEqual(t, seen["c"], 2)
	assert.LessOrEqual(t, seen["c"], 3)
	assert.GreaterOrEqual(t, seen["d"], 2)
	assert.LessOrEqual(t, seen["d"], 3)
	assert.Equal(t, 4, seen["e"])
}

func TestBatchSummaryAggregation(t *testing.T) {
	t.Parallel()

	eval := &fakeEvaluator{scores: map[string]float64{
		"low": 50, "mid": 70, "high": 90, "top": 95,
	}}
	b := newTestBatch(&fakeSource{}, eval, &fakeReports{})

	summary := b.Run(context.Background(), slugTasks("low", "mid", "high", "top"), 4)

	assert.InDelta(t, 76.25, summary.AverageScore, 0.01)
	assert.Equal(t, 50.0, summary.MinScore)
	assert.Equal(t, 95.0, summary.MaxScore)

	require.Len(t, summary.TopPerformers, 3)
	assert.Equal(t, "top", summary.TopPerformers[0].Slug)
	assert.Equal(t, "high", summary.TopPerformers[1].Slug)

	// Only articles flagged Optimize qualify, lowest first.
	require.Len(t, summary.NeedsOptimization, 2)
	assert.Equal(t, "low", summary.NeedsOptimization[0].Slug)
	assert.Equal(t, "mid", summary.NeedsOptimization[1].Slug)
}

func TestBatchRecoversPanics(t *testing.T) {
	t.Parallel()

	eval := &fakeEvaluator{panics: map[string]bool{"boom": true}}
	b := newTestBatch(&fakeSource{}, eval, &fakeReports{})

	summary := b.Run(context.Background(), slugTasks("ok", "boom"), 2)

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, summary.Failures, 1)
	assert.Contains(t, summary.Failures[0].Message, "panic")
}

func TestBatchSummaryRowFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	reports := &fakeReports{rowErr: fmt.Errorf("disk full")}
	b := newTestBatch(&fakeSource{}, &fakeEvaluator{}, reports)

	summary := b.Run(context.Background(), slugTasks("a"), 1)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.Len(t, reports.articles, 1)
	assert.Empty(t, reports.rows)
}

func TestBatchDefaultsBatchSize(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	b := newTestBatch(source, &fakeEvaluator{}, &fakeReports{})

	summary := b.Run(context.Background(), slugTasks("a", "b"), 0)
	assert.Equal(t, 2, summary.Succeeded)
}
