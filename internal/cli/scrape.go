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
	"seoaudit/internal/infrastructure/scrape"
	"seoaudit/internal/report"
	"seoaudit/internal/usecase"
)

func newScrapeCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var (
		urlFile        string
		extractionName string
		evaluationName string
		batchSize      int
		outputDir      string
	)

	cmd := &cobra.Command{
		Use:   "scrape [url]",
		Short: "Evaluate arbitrary webpages outside the CMS",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			urls, err := readTokens(arg, "", urlFile)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return errors.New("no URLs given: pass a URL or --file")
			}

			tasks := make([]usecase.Task, 0, len(urls))
			for _, u := range urls {
				tasks = append(tasks, usecase.Task{URL: u})
			}

			if outputDir != "" {
				cfg.Reports.Dir = outputDir
			}
			if batchSize <= 0 {
				batchSize = cfg.Batch.Size
			}

			batch, err := buildScrapeBatch(cfg, logger, extractionName, evaluationName)
			if err != nil {
				return err
			}

			summary := batch.Run(cmd.Context(), tasks, batchSize)
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFile, "file", "", "newline-delimited URL file (# lines ignored)")
	cmd.Flags().StringVar(&extractionName, "extraction-config", "default", "named extraction config")
	cmd.Flags().StringVar(&evaluationName, "evaluation-config", "default", "named evaluation config")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "pages processed concurrently per chunk")
	cmd.Flags().StringVar(&outputDir, "output", "", "report output directory")
	return cmd
}

func buildScrapeBatch(cfg config.Config, logger *slog.Logger, extractionName, evaluationName string) (*usecase.Batch, error) {
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
		Scraper:   scrape.New(nil, logger.With("component", "scrape")),
		Extractor: extract.New(logger.With("component", "extract")),
		Evaluator: evaluate.New(generator, evalCfg, logger.With("component", "evaluate")),
		Reports:   writer,
		Fields:    fields,
		RunID:     writer.RunID(),
		Logger:    logger.With("component", "batch"),
	}), nil
}
