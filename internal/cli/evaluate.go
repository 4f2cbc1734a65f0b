package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
	"seoaudit/internal/evaluate"
	"seoaudit/internal/extract"
	"seoaudit/internal/infrastructure/gemini"
	"seoaudit/internal/infrastructure/wordpress"
	"seoaudit/internal/report"
	"seoaudit/internal/usecase"
)

func newEvaluateCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var (
		idList         string
		idFile         string
		extractionName string
		evaluationName string
		batchSize      int
		outputDir      string
	)

	cmd := &cobra.Command{
		Use:   "evaluate [identifier]",
		Short: "Evaluate one or many CMS articles by slug or numeric id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			tokens, err := readTokens(arg, idList, idFile)
			if err != nil {
				return err
			}
			if len(tokens) == 0 {
				return errors.New("no article identifiers given: pass an identifier, --ids or --file")
			}

			tasks := make([]usecase.Task, 0, len(tokens))
			for _, token := range tokens {
				tasks = append(tasks, usecase.Task{Identifier: domain.ParseIdentifier(token)})
			}

			if outputDir != "" {
				cfg.Reports.Dir = outputDir
			}
			if batchSize <= 0 {
				batchSize = cfg.Batch.Size
			}

			batch, err := buildBatch(cfg, logger, extractionName, evaluationName)
			if err != nil {
				return err
			}

			summary := batch.Run(cmd.Context(), tasks, batchSize)
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&idList, "ids", "", "comma-separated slugs or numeric ids")
	cmd.Flags().StringVar(&idFile, "file", "", "newline-delimited identifier file (# lines ignored)")
	cmd.Flags().StringVar(&extractionName, "extraction-config", "default", "named extraction config")
	cmd.Flags().StringVar(&evaluationName, "evaluation-config", "default", "named evaluation config")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "articles processed concurrently per chunk")
	cmd.Flags().StringVar(&outputDir, "output", "", "report output directory")
	return cmd
}

// buildBatch loads the named configs and wires the whole pipeline. Any
// configuration failure here is fatal to the run, before any article starts.
func buildBatch(cfg config.Config, logger *slog.Logger, extractionName, evaluationName string) (*usecase.Batch, error) {
	if cfg.WordPress.BaseURL == "" {
		return nil, fmt.Errorf("%w: wordpress base URL is not set (WP_BASE_URL)", domain.ErrConfig)
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is not set (GEMINI_API_KEY)", domain.ErrConfig)
	}

	fields, err := config.LoadExtraction(cfg.ConfigDir, extractionName)
	if err != nil {
		return nil, err
	}
	evalCfg, err := config.LoadEvaluation(cfg.ConfigDir, evaluationName)
	if err != nil {
		return nil, err
	}

	writer := report.NewWriter(cfg.Reports)
	generator := gemini.NewClient(cfg.Gemini, nil)

	return usecase.NewBatch(usecase.BatchDeps{
		Source:    wordpress.NewClient(cfg.WordPress, nil, logger.With("component", "wordpress")),
		Scraper:   nil,
		Extractor: extract.New(logger.With("component", "extract")),
		Evaluator: evaluate.New(generator, evalCfg, logger.With("component", "evaluate")),
		Reports:   writer,
		Fields:    fields,
		RunID:     writer.RunID(),
		Logger:    logger.With("component", "batch"),
	}), nil
}

func printSummary(cmd *cobra.Command, s domain.BatchSummary) {
	cmd.Printf("\nRun %s: %d articles, %d succeeded, %d failed\n", s.RunID, s.Total, s.Succeeded, s.Failed)

	if s.Succeeded > 0 {
		cmd.Printf("Scores: avg %.1f, min %.1f, max %.1f\n", s.AverageScore, s.MinScore, s.MaxScore)
		cmd.Println("\nTop performers:")
		for _, a := range s.TopPerformers {
			cmd.Printf("  %.1f  %s (%s)\n", a.OverallScore, a.Title, a.Slug)
		}
		if len(s.NeedsOptimization) > 0 {
			cmd.Println("\nNeeds optimization:")
			for _, a := range s.NeedsOptimization {
				cmd.Printf("  %.1f  %s (%s)\n", a.OverallScore, a.Title, a.Slug)
			}
		}
	}

	if s.Failed > 0 {
		cmd.Println("\nFailures:")
		for _, f := range s.Failures {
			cmd.Printf("  %s: %s\n", f.Identifier, f.Message)
		}
	}
}
