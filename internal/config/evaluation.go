package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"seoaudit/internal/domain"
)

const weightTolerance = 1e-6

// EvaluationConfig drives prompt construction and result interpretation.
type EvaluationConfig struct {
	Criteria     []CriterionConfig `yaml:"criteria"`
	OutputFormat OutputFormat      `yaml:"output_format"`
}

// CriterionConfig is one rubric dimension as configured on disk.
type CriterionConfig struct {
	Name                 string  `yaml:"name"`
	Weight               float64 `yaml:"weight"`
	Description          string  `yaml:"description"`
	BaselineExpectations string  `yaml:"baseline_expectations"`
}

// OutputFormat selects the prompt template and the optimization cutoff.
type OutputFormat struct {
	OptimizationThreshold float64 `yaml:"optimization_threshold"`
	ReportType            string  `yaml:"report_type"`
}

// DomainCriteria converts the configured dimensions into domain criteria.
func (e EvaluationConfig) DomainCriteria() []domain.Criterion {
	out := make([]domain.Criterion, 0, len(e.Criteria))
	for _, c := range e.Criteria {
		out = append(out, domain.Criterion{
			Name:        c.Name,
			Weight:      c.Weight,
			Description: c.Description,
			Baseline:    c.BaselineExpectations,
		})
	}
	return out
}

// Threshold returns the optimization cutoff, defaulting to 75.
func (e EvaluationConfig) Threshold() float64 {
	if e.OutputFormat.OptimizationThreshold <= 0 {
		return 75
	}
	return e.OutputFormat.OptimizationThreshold
}

// LoadEvaluation resolves a named evaluation config from
// {dir}/evaluation/{name}.yaml. The name "default" is built in.
func LoadEvaluation(dir, name string) (EvaluationConfig, error) {
	if name == "" || name == "default" {
		return DefaultEvaluation(), nil
	}

	path := filepath.Join(dir, "evaluation", name+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return EvaluationConfig{}, fmt.Errorf("%w: evaluation config %q: %v", domain.ErrConfig, name, err)
	}

	var cfg EvaluationConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return EvaluationConfig{}, fmt.Errorf("%w: parse evaluation config %q: %v", domain.ErrConfig, name, err)
	}
	if err := validateEvaluation(cfg); err != nil {
		return EvaluationConfig{}, fmt.Errorf("%w: evaluation config %q: %v", domain.ErrConfig, name, err)
	}
	return cfg, nil
}

func validateEvaluation(cfg EvaluationConfig) error {
	if len(cfg.Criteria) == 0 {
		return fmt.Errorf("no criteria defined")
	}

	var sum float64
	seen := map[string]bool{}
	for _, c := range cfg.Criteria {
		if c.Name == "" {
			return fmt.Errorf("criterion with empty name")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate criterion %q", c.Name)
		}
		seen[c.Name] = true
		if c.Weight <= 0 || c.Weight > 1 {
			return fmt.Errorf("criterion %q weight %v out of (0,1]", c.Name, c.Weight)
		}
		sum += c.Weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("criterion weights sum to %v, want 1.0", sum)
	}
	return nil
}

// DefaultEvaluation returns the built-in six-dimension rubric with a
// threshold of 75 and the full report template.
func DefaultEvaluation() EvaluationConfig {
	criteria := domain.DefaultCriteria()
	cfg := EvaluationConfig{
		OutputFormat: OutputFormat{OptimizationThreshold: 75, ReportType: "full"},
	}
	for _, c := range criteria {
		cfg.Criteria = append(cfg.Criteria, CriterionConfig{
			Name:                 c.Name,
			Weight:               c.Weight,
			Description:          c.Description,
			BaselineExpectations: c.Baseline,
		})
	}
	return cfg
}
