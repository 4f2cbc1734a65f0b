package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
	"seoaudit/internal/ports"
)

const summaryFile = "seo_analysis_summary.csv"

var csvHeader = []string{
	"URL", "Slug", "Score", "Status", "Top Strengths", "Critical Issues",
	"Update Priority", "Last Updated", "Word Count", "Processing Date",
}

var unsafePathRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Writer renders evaluation results into the on-disk report layout:
// reports/{identifier}/ with Markdown, metadata and raw JSON artifacts,
// plus an optional run-level CSV summary.
type Writer struct {
	dir        string
	runID      string
	csvEnabled bool

	// mu serializes CSV appends so concurrent article completions never
	// interleave partial lines.
	mu sync.Mutex
}

var _ ports.ReportWriter = (*Writer)(nil)

// NewWriter stamps a fresh run id and resolves the output directory.
func NewWriter(cfg config.ReportConfig) *Writer {
	return &Writer{
		dir:        cfg.Dir,
		runID:      uuid.NewString(),
		csvEnabled: cfg.CSVEnabled(),
	}
}

// RunID identifies this writer's run in metadata artifacts.
func (w *Writer) RunID() string {
	return w.runID
}

// WriteArticle persists the full artifact set for one article and returns
// the report directory. Each article owns its own subdirectory, so sibling
// writes never conflict.
func (w *Writer) WriteArticle(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) (string, error) {
	dir := filepath.Join(w.dir, articleDirName(rec))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	files := map[string][]byte{
		"seo-analysis-report.md":   []byte(renderAnalysisReport(rec, eval)),
		"executive-summary.md":     []byte(renderExecutiveSummary(rec, eval)),
		"content-creator-guide.md": []byte(renderCreatorGuide(rec, eval)),
	}

	metadata, err := json.MarshalIndent(buildMetadata(w.runID, rec, eval), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	files["metadata.json"] = metadata

	rawEval, err := json.MarshalIndent(eval, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal evaluation: %w", err)
	}
	files["raw-evaluation.json"] = rawEval

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}
	return dir, nil
}

// AppendSummaryRow appends one CSV row. The row is rendered into a buffer
// first and written with a single call, keeping each line atomic.
func (w *Writer) AppendSummaryRow(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) error {
	if !w.csvEnabled {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(w.dir, summaryFile)
	info, err := os.Stat(path)
	writeHeader := err != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary csv: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if writeHeader {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("render csv header: %w", err)
		}
	}
	if err := cw.Write(summaryRow(rec, eval)); err != nil {
		return fmt.Errorf("render csv row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("render csv row: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append summary row: %w", err)
	}
	return nil
}

func summaryRow(rec domain.CanonicalRecord, eval domain.ScoredEvaluation) []string {
	return []string{
		rec.URL,
		rec.Slug,
		fmt.Sprintf("%.1f", eval.OverallScore),
		eval.Recommendation,
		strings.Join(topStrengths(eval), "; "),
		strings.Join(criticalIssues(eval), "; "),
		eval.Priority,
		rec.LastModified,
		fmt.Sprintf("%d", rec.WordCount),
		eval.EvaluatedAt.Format(time.RFC3339),
	}
}

// topStrengths pulls strengths from the highest-scoring criteria.
func topStrengths(eval domain.ScoredEvaluation) []string {
	return collect(eval, false, 3, func(r domain.CriterionResult) []string { return r.Strengths })
}

// criticalIssues pulls weaknesses from the lowest-scoring criteria.
func criticalIssues(eval domain.ScoredEvaluation) []string {
	return collect(eval, true, 3, func(r domain.CriterionResult) []string { return r.Weaknesses })
}

func collect(eval domain.ScoredEvaluation, ascending bool, limit int, pick func(domain.CriterionResult) []string) []string {
	names := make([]string, 0, len(eval.Criteria))
	for name := range eval.Criteria {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := eval.Criteria[names[i]].Score, eval.Criteria[names[j]].Score
		if si != sj {
			if ascending {
				return si < sj
			}
			return si > sj
		}
		return names[i] < names[j]
	})

	var out []string
	for _, name := range names {
		for _, item := range pick(eval.Criteria[name]) {
			out = append(out, item)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// articleDirName picks a filesystem-safe identifier: slug, then post id.
func articleDirName(rec domain.CanonicalRecord) string {
	name := rec.Slug
	if name == "" {
		name = rec.PostID
	}
	name = unsafePathRe.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "article"
	}
	return name
}

type metadata struct {
	RunID       string             `json:"run_id"`
	PostID      string             `json:"post_id"`
	Slug        string             `json:"slug"`
	URL         string             `json:"url"`
	Title       string             `json:"title"`
	WordCount   int                `json:"word_count"`
	ReadingTime int                `json:"reading_time"`
	Model       string             `json:"model"`
	EvaluatedAt time.Time          `json:"evaluated_at"`
	Overall     float64            `json:"overall_score"`
	Scores      map[string]float64 `json:"scores"`
}

func buildMetadata(runID string, rec domain.CanonicalRecord, eval domain.ScoredEvaluation) metadata {
	scores := make(map[string]float64, len(eval.Criteria))
	for name, r := range eval.Criteria {
		scores[name] = r.Score
	}
	return metadata{
		RunID:       runID,
		PostID:      rec.PostID,
		Slug:        rec.Slug,
		URL:         rec.URL,
		Title:       rec.Title,
		WordCount:   rec.WordCount,
		ReadingTime: rec.ReadingTime,
		Model:       eval.Model,
		EvaluatedAt: eval.EvaluatedAt,
		Overall:     eval.OverallScore,
		Scores:      scores,
	}
}
