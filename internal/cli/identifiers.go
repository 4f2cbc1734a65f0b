package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readTokens collects work tokens from a positional argument, a
// comma-separated list and a newline-delimited file. Lines starting with '#'
// are comments. Order is preserved: argument, list, file.
func readTokens(arg, list, file string) ([]string, error) {
	var tokens []string

	appendSplit := func(raw string) {
		for _, token := range strings.Split(raw, ",") {
			if token = strings.TrimSpace(token); token != "" {
				tokens = append(tokens, token)
			}
		}
	}

	if arg != "" {
		appendSplit(arg)
	}
	if list != "" {
		appendSplit(list)
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open identifier file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			tokens = append(tokens, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read identifier file: %w", err)
		}
	}

	return tokens, nil
}
