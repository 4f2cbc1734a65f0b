// Package cli wires the cobra command surface: a primary evaluate command
// for CMS-addressed articles and a scrape command for raw URLs.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"seoaudit/internal/config"
)

// New builds the root command with the resolved configuration injected.
func New(cfg config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "seoaudit",
		Short:         "Batch SEO evaluation of blog content",
		Long:          "seoaudit fetches blog articles, normalizes them into one canonical record and scores them against a weighted SEO rubric via a generative AI API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newEvaluateCmd(cfg, logger))
	root.AddCommand(newScrapeCmd(cfg, logger))
	return root
}
