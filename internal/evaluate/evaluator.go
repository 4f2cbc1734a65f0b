package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
	"seoaudit/internal/ports"
)

const maxPriorityRecommendations = 3

// Evaluator drives the generative API through prompt construction, response
// repair, validation and the weighted score recomputation.
type Evaluator struct {
	gen      ports.TextGenerator
	cfg      config.EvaluationConfig
	criteria []domain.Criterion
	logger   *slog.Logger
}

var _ ports.Evaluator = (*Evaluator)(nil)

// New wires the transport and the evaluation config.
func New(gen ports.TextGenerator, cfg config.EvaluationConfig, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		gen:      gen,
		cfg:      cfg,
		criteria: cfg.DomainCriteria(),
		logger:   logger,
	}
}

// criterionPayload is one per-criterion object in the model response.
// Score is a pointer so a missing or null score is distinguishable from 0.
type criterionPayload struct {
	Score           *float64 `json:"score"`
	Analysis        string   `json:"analysis"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Evaluate scores one canonical record. Any transport, parse or validation
// failure is wrapped in ErrEvaluation; partial or default-valued evaluations
// are never returned.
func (e *Evaluator) Evaluate(ctx context.Context, rec domain.CanonicalRecord) (domain.ScoredEvaluation, error) {
	prompt := BuildPrompt(rec, e.cfg)

	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		return domain.ScoredEvaluation{}, fmt.Errorf("%w: %w", domain.ErrEvaluation, err)
	}

	eval, err := e.parse(raw)
	if err != nil {
		return domain.ScoredEvaluation{}, fmt.Errorf("%w: %w", domain.ErrEvaluation, err)
	}
	return eval, nil
}

func (e *Evaluator) parse(raw string) (domain.ScoredEvaluation, error) {
	repaired, err := Repair(raw)
	if err != nil {
		return domain.ScoredEvaluation{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return domain.ScoredEvaluation{}, parseError(repaired, err)
	}

	results, err := e.validate(payload)
	if err != nil {
		return domain.ScoredEvaluation{}, err
	}

	overall := domain.WeightedOverall(e.criteria, results)
	e.checkDegenerate(results)

	eval := domain.ScoredEvaluation{
		Criteria:                results,
		OverallScore:            overall,
		Recommendation:          e.recommendation(overall),
		Priority:                e.priority(payload, overall),
		PriorityRecommendations: e.priorityRecommendations(payload, results),
		EvaluatedAt:             time.Now().UTC(),
		Model:                   e.gen.ModelName(),
	}
	return eval, nil
}

// validate requires every criterion object with a present, non-null score.
// Missing fields are a hard failure, never substituted with zeros.
func (e *Evaluator) validate(payload map[string]json.RawMessage) (map[string]domain.CriterionResult, error) {
	results := make(map[string]domain.CriterionResult, len(e.criteria))
	for _, c := range e.criteria {
		raw, ok := payload[c.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s_score", domain.ErrValidation, c.Name)
		}

		var parsed criterionPayload
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("%w: criterion %s: %v", domain.ErrValidation, c.Name, err)
		}
		if parsed.Score == nil {
			return nil, fmt.Errorf("%w: %s_score", domain.ErrValidation, c.Name)
		}

		score := *parsed.Score
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("%w: %s_score %v out of [0,100]", domain.ErrValidation, c.Name, score)
		}

		results[c.Name] = domain.CriterionResult{
			Score:           score,
			Analysis:        parsed.Analysis,
			Strengths:       parsed.Strengths,
			Weaknesses:      parsed.Weaknesses,
			Recommendations: parsed.Recommendations,
		}
	}
	return results, nil
}

// recommendation applies the configured threshold with a strict comparison:
// a score exactly at the threshold is not flagged.
func (e *Evaluator) recommendation(overall float64) string {
	if overall < e.cfg.Threshold() {
		return domain.RecommendOptimize
	}
	return domain.RecommendNotOptimize
}

// priority keeps the model's tier when supplied, otherwise derives it from
// the recomputed overall score.
func (e *Evaluator) priority(payload map[string]json.RawMessage, overall float64) string {
	if raw, ok := payload["update_priority"]; ok {
		var tier string
		if err := json.Unmarshal(raw, &tier); err == nil {
			switch tier {
			case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
				return tier
			}
		}
	}
	switch {
	case overall < 60:
		return domain.PriorityHigh
	case overall < 75:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// priorityRecommendations keeps the model's list when supplied, otherwise
// pulls recommendations from the weakest criteria.
func (e *Evaluator) priorityRecommendations(payload map[string]json.RawMessage, results map[string]domain.CriterionResult) []string {
	if raw, ok := payload["priority_recommendations"]; ok {
		var recs []string
		if err := json.Unmarshal(raw, &recs); err == nil && len(recs) > 0 {
			if len(recs) > maxPriorityRecommendations {
				recs = recs[:maxPriorityRecommendations]
			}
			return recs
		}
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if results[names[i]].Score != results[names[j]].Score {
			return results[names[i]].Score < results[names[j]].Score
		}
		return names[i] < names[j]
	})

	var recs []string
	for _, name := range names {
		for _, r := range results[name].Recommendations {
			recs = append(recs, r)
			if len(recs) == maxPriorityRecommendations {
				return recs
			}
		}
	}
	return recs
}

// checkDegenerate warns when every criterion got the same score, a sign the
// model may not have engaged with the rubric. Diagnostic only.
func (e *Evaluator) checkDegenerate(results map[string]domain.CriterionResult) {
	if e.logger == nil || len(results) < 2 {
		return
	}
	var first float64
	set := false
	for _, r := range results {
		if !set {
			first = r.Score
			set = true
			continue
		}
		if r.Score != first {
			return
		}
	}
	e.logger.Warn("identical scores across all criteria", "score", first)
}

// parseError surfaces the parser's position plus a short context window of
// the repaired text so malformed responses can be diagnosed.
func parseError(repaired string, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	var offset int64 = -1
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}

	if offset < 0 {
		return fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	start := offset - 40
	if start < 0 {
		start = 0
	}
	end := offset + 40
	if end > int64(len(repaired)) {
		end = int64(len(repaired))
	}
	return fmt.Errorf("%w: %v at offset %d near %q", domain.ErrParse, err, offset, repaired[start:end])
}
