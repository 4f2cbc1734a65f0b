package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"seoaudit/internal/domain"
)

const (
	configPathEnv   = "SEOAUDIT_CONFIG"
	wpBaseURLEnv    = "WP_BASE_URL"
	geminiKeyEnv    = "GEMINI_API_KEY"
	geminiModelEnv  = "GEMINI_MODEL"
	reportsDirEnv   = "SEOAUDIT_REPORTS_DIR"
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
)

// Config holds every setting the application needs. It is constructed once
// at process start and handed into constructors; no component reads the
// environment directly.
type Config struct {
	WordPress WordPressConfig `yaml:"wordpress"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Reports   ReportConfig    `yaml:"reports"`
	Batch     BatchConfig     `yaml:"batch"`
	Logging   LoggingConfig   `yaml:"logging"`
	ConfigDir string          `yaml:"configDir"`
}

// WordPressConfig describes the CMS REST endpoint and its retry policy.
type WordPressConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	ProbeRetries   int    `yaml:"probeRetries"`
	ProbeBackoffMS int    `yaml:"probeBackoffMs"`
}

// Timeout resolves the per-request HTTP timeout.
func (w WordPressConfig) Timeout() time.Duration {
	if w.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// ProbeBackoff resolves the fixed delay between connectivity retries.
func (w WordPressConfig) ProbeBackoff() time.Duration {
	if w.ProbeBackoffMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(w.ProbeBackoffMS) * time.Millisecond
}

// GeminiConfig defines how to contact the generative text API. Temperature is
// a pointer so an explicit 0 in the file is distinguishable from "not set".
type GeminiConfig struct {
	Endpoint        string   `yaml:"endpoint"`
	Model           string   `yaml:"model"`
	APIKey          string   `yaml:"apiKey"`
	Temperature     *float64 `yaml:"temperature"`
	TopK            int      `yaml:"topK"`
	TopP            float64  `yaml:"topP"`
	MaxOutputTokens int      `yaml:"maxOutputTokens"`
	TimeoutSeconds  int      `yaml:"timeoutSeconds"`
}

// TemperatureValue resolves the sampling temperature, defaulting to 0.2.
func (g GeminiConfig) TemperatureValue() float64 {
	if g.Temperature == nil {
		return 0.2
	}
	return *g.Temperature
}

// Timeout resolves the generation call timeout; model calls run long.
func (g GeminiConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// ReportConfig controls where report artifacts land. CSVSummary is a pointer
// so `csvSummary: false` in the file can switch the default off.
type ReportConfig struct {
	Dir        string `yaml:"dir"`
	CSVSummary *bool  `yaml:"csvSummary"`
}

// CSVEnabled resolves the summary toggle, defaulting to on.
func (r ReportConfig) CSVEnabled() bool {
	if r.CSVSummary == nil {
		return true
	}
	return *r.CSVSummary
}

// BatchConfig bounds concurrent external-API load.
type BatchConfig struct {
	Size int `yaml:"size"`
}

// LoggingConfig carries the slog level string.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A present-but-unreadable config file is fatal: silently running
// with defaults when the operator pointed at a file is worse than stopping.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfig, path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", domain.ErrConfig, path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(wpBaseURLEnv); v != "" {
		c.WordPress.BaseURL = v
	}
	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv(reportsDirEnv); v != "" {
		c.Reports.Dir = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.WordPress.BaseURL != "" {
		base.WordPress.BaseURL = override.WordPress.BaseURL
	}
	if override.WordPress.TimeoutSeconds > 0 {
		base.WordPress.TimeoutSeconds = override.WordPress.TimeoutSeconds
	}
	if override.WordPress.ProbeRetries > 0 {
		base.WordPress.ProbeRetries = override.WordPress.ProbeRetries
	}
	if override.WordPress.ProbeBackoffMS > 0 {
		base.WordPress.ProbeBackoffMS = override.WordPress.ProbeBackoffMS
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Temperature != nil {
		base.Gemini.Temperature = override.Gemini.Temperature
	}
	if override.Gemini.TopK > 0 {
		base.Gemini.TopK = override.Gemini.TopK
	}
	if override.Gemini.TopP > 0 {
		base.Gemini.TopP = override.Gemini.TopP
	}
	if override.Gemini.MaxOutputTokens > 0 {
		base.Gemini.MaxOutputTokens = override.Gemini.MaxOutputTokens
	}
	if override.Gemini.TimeoutSeconds > 0 {
		base.Gemini.TimeoutSeconds = override.Gemini.TimeoutSeconds
	}

	if override.Reports.Dir != "" {
		base.Reports.Dir = override.Reports.Dir
	}
	if override.Reports.CSVSummary != nil {
		base.Reports.CSVSummary = override.Reports.CSVSummary
	}
	if override.Batch.Size > 0 {
		base.Batch.Size = override.Batch.Size
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.ConfigDir != "" {
		base.ConfigDir = override.ConfigDir
	}

	return base
}

func defaultConfig() Config {
	return Config{
		WordPress: WordPressConfig{
			BaseURL:        "",
			TimeoutSeconds: 30,
			ProbeRetries:   3,
			ProbeBackoffMS: 2000,
		},
		Gemini: GeminiConfig{
			Endpoint:        defaultEndpoint,
			Model:           "gemini-1.5-pro",
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8192,
			TimeoutSeconds:  120,
		},
		Reports:   ReportConfig{Dir: "reports"},
		Batch:     BatchConfig{Size: 3},
		Logging:   LoggingConfig{Level: "info"},
		ConfigDir: "configs",
	}
}
