package cli

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(baseURL string) config.Config {
	cfg := config.Config{}
	cfg.WordPress.BaseURL = baseURL
	cfg.Gemini.APIKey = "test-key"
	cfg.Gemini.Model = "gemini-1.5-pro"
	cfg.Batch.Size = 3
	return cfg
}

func TestBuildBatchRequiresBaseURL(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	_, err := buildBatch(cfg, discardLogger(), "default", "default")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "WP_BASE_URL")
}

func TestBuildBatchRequiresGeminiKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig("https://blog.example.com")
	cfg.Gemini.APIKey = ""
	_, err := buildBatch(cfg, discardLogger(), "default", "default")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestBuildScrapeBatchRequiresGeminiKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.Gemini.APIKey = ""
	_, err := buildScrapeBatch(cfg, discardLogger(), "default", "default")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestEvaluateCommandFailsBeforeAnyFetchWithoutKey(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.Gemini.APIKey = ""
	cfg.Reports.Dir = t.TempDir()

	root := New(cfg, discardLogger())
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"evaluate", "--ids", "first,second"})

	err := root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)

	// The run must abort before the CMS is ever contacted.
	assert.Zero(t, atomic.LoadInt32(&hits))
}
