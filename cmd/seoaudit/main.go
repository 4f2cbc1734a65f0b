package main

import (
	"context"
	"fmt"
	"os"

	"seoaudit/internal/cli"
	"seoaudit/internal/config"
	"seoaudit/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "seoaudit:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level)

	root := cli.New(cfg, logger)
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("run aborted", "error", err)
		fmt.Fprintln(os.Stderr, "seoaudit:", err)
		os.Exit(1)
	}
}
