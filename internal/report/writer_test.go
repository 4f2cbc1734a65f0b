package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
)

func sampleRecord() domain.CanonicalRecord {
	return domain.CanonicalRecord{
		PostID:       "42",
		Slug:         "go-testing-guide",
		URL:          "https://blog.example.com/go-testing-guide",
		Title:        "Go Testing, a Guide",
		Content:      "some body text",
		WordCount:    812,
		ReadingTime:  5,
		LastModified: "2025-06-01T10:00:00",
	}
}

func sampleEvaluation() domain.ScoredEvaluation {
	return domain.ScoredEvaluation{
		Criteria: map[string]domain.CriterionResult{
			"eeat": {
				Score:      88,
				Analysis:   "author bio present",
				Strengths:  []string{"clear author attribution"},
				Weaknesses: []string{"no external citations"},
			},
			"technical": {
				Score:           45,
				Analysis:        "meta gaps",
				Weaknesses:      []string{"missing meta description"},
				Recommendations: []string{"write a meta description"},
			},
			"freshness": {
				Score:     72,
				Strengths: []string{"recently updated"},
			},
		},
		OverallScore:            71.3,
		Recommendation:          domain.RecommendOptimize,
		Priority:                domain.PriorityMedium,
		PriorityRecommendations: []string{"write a meta description"},
		EvaluatedAt:             time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Model:                   "test-model",
	}
}

func TestWriteArticleProducesFullArtifactSet(t *testing.T) {
	t.Parallel()

	w := NewWriter(config.ReportConfig{Dir: t.TempDir()})
	dir, err := w.WriteArticle(sampleRecord(), sampleEvaluation())
	require.NoError(t, err)
	assert.Equal(t, "go-testing-guide", filepath.Base(dir))

	for _, name := range []string{
		"seo-analysis-report.md",
		"executive-summary.md",
		"content-creator-guide.md",
		"metadata.json",
		"raw-evaluation.json",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	report, err := os.ReadFile(filepath.Join(dir, "seo-analysis-report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Go Testing, a Guide")
	assert.Contains(t, string(report), "71.3")

	meta, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"run_id": "`+w.RunID()+`"`)
	assert.Contains(t, string(meta), `"overall_score": 71.3`)
}

func TestAppendSummaryRowHeaderAndQuoting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewWriter(config.ReportConfig{Dir: dir})

	require.NoError(t, w.AppendSummaryRow(sampleRecord(), sampleEvaluation()))
	require.NoError(t, w.AppendSummaryRow(sampleRecord(), sampleEvaluation()))

	f, err := os.Open(filepath.Join(dir, "seo_analysis_summary.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// One header even across two appends.
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])

	row := rows[1]
	assert.Equal(t, "https://blog.example.com/go-testing-guide", row[0])
	assert.Equal(t, "go-testing-guide", row[1])
	assert.Equal(t, "71.3", row[2])
	assert.Equal(t, domain.RecommendOptimize, row[3])
	assert.Equal(t, domain.PriorityMedium, row[6])
	assert.Equal(t, "812", row[8])
	assert.Equal(t, "2025-06-02T09:00:00Z", row[9])
}

func TestSummaryRowOrdersStrengthsAndIssuesByScore(t *testing.T) {
	t.Parallel()

	row := summaryRow(sampleRecord(), sampleEvaluation())

	// Strengths come from the highest-scoring criteria first, issues from
	// the lowest-scoring ones.
	assert.Equal(t, "clear author attribution; recently updated", row[4])
	assert.Equal(t, "missing meta description; no external citations", row[5])
}

func TestAppendSummaryRowDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	disabled := false
	w := NewWriter(config.ReportConfig{Dir: dir, CSVSummary: &disabled})
	require.NoError(t, w.AppendSummaryRow(sampleRecord(), sampleEvaluation()))

	_, err := os.Stat(filepath.Join(dir, "seo_analysis_summary.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestArticleDirNameSanitizes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a-b-c", articleDirName(domain.CanonicalRecord{Slug: "a/b c"}))
	assert.Equal(t, "42", articleDirName(domain.CanonicalRecord{PostID: "42"}))
	assert.Equal(t, "article", articleDirName(domain.CanonicalRecord{Slug: "///"}))
}

func TestCreatorGuideChecklistsOnlyCriteriaWithRecommendations(t *testing.T) {
	t.Parallel()

	guide := renderCreatorGuide(sampleRecord(), sampleEvaluation())
	assert.Contains(t, guide, "## Technical SEO (45.0)")
	assert.Contains(t, guide, "- [ ] write a meta description")
	assert.NotContains(t, guide, "E-E-A-T")
}
