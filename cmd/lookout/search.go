package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/lookout/pkg/cli"
	"mercator-hq/lookout/pkg/search"
	"mercator-hq/lookout/pkg/telemetry/metrics"
)

var searchFlags struct {
	format   string
	provider string
	queries  []string
}

var searchCmd = &cobra.Command{
	Use:   "search [query words...]",
	Short: "Run a web search with the configured provider",
	Long: `Run one or more searches the way the proxy does, with the same retry
policy, result limit and error sentinels, and print the results.

Examples:
  lookout search example.com
  lookout search Jane Doe
  lookout search -q example.com -q "Jane Doe" --format json
  lookout search --provider searxng example.com`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchFlags.format, "format", "f", "text", "output format (text, json)")
	searchCmd.Flags().StringVar(&searchFlags.provider, "provider", "", "override search provider (leta, searxng)")
	searchCmd.Flags().StringArrayVarP(&searchFlags.queries, "query", "q", nil, "query to run (repeatable)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	queries := append([]string(nil), searchFlags.queries...)
	if q := joinArgs(args); q != "" {
		queries = append(queries, q)
	}
	if len(queries) == 0 {
		return errors.New("no query given")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if searchFlags.provider != "" {
		cfg.Search.Provider = searchFlags.provider
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	formatter, err := cli.NewFormatter(cli.OutputFormat(searchFlags.format))
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	client, err := search.NewFromConfig(cfg.Search, &http.Client{}, logger, collector)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	progress := cli.NewProgressReporter(cmd.ErrOrStderr())
	progress.Start(len(queries))

	reports := make([]cli.SearchReport, 0, len(queries))
	for i, q := range queries {
		if err := cmd.Context().Err(); err != nil {
			progress.Error(err)
			return err
		}
		progress.Update(i+1, q)
		reports = append(reports, cli.SearchReport{
			Query:   q,
			Results: client.Search(cmd.Context(), q),
		})
	}
	progress.Finish()

	if err := formatter.FormatTo(cmd.OutOrStdout(), reports); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// joinArgs joins positional arguments into one query.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
