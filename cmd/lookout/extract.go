package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"mercator-hq/lookout/pkg/cli"
	"mercator-hq/lookout/pkg/extract"
	"mercator-hq/lookout/pkg/proxy"
)

var extractFlags struct {
	format string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Show the search queries a chat request would trigger",
	Long: `Read a chat completion request as JSON on stdin and print the domains,
sender names and search queries the proxy would extract from it.

Examples:
  echo '{"messages":[{"role":"user","content":"From: Jane\nsee example.com"}]}' | lookout extract
  lookout extract --format json < request.json`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFlags.format, "format", "f", "text", "output format (text, json)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	formatter, err := cli.NewFormatter(cli.OutputFormat(extractFlags.format))
	if err != nil {
		return err
	}

	// Parse the request the same way the proxy does.
	r, err := http.NewRequest(http.MethodPost, "/", cmd.InOrStdin())
	if err != nil {
		return err
	}
	req, err := proxy.ParseChatRequest(r, cfg.Proxy.MaxBodyBytes)
	if err != nil {
		return cli.NewCommandError("extract", err)
	}

	extractor := extract.New(cfg.Extraction.MaxDomains)
	domains, names := extractor.Extract(req.Messages)
	report := cli.ExtractReport{
		Domains: nonNil(domains),
		Names:   nonNil(names),
		Queries: nonNil(extractor.Queries(req.Messages)),
	}

	if err := formatter.FormatTo(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// nonNil keeps empty lists as [] in JSON output.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
