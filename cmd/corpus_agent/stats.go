package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/config"
	"github.com/jonathan/tetun-corpus/internal/pipeline"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report domain, extension and link statistics of the crawl",
	RunE:  runStats,
}

var (
	statsUseBrowser  bool
	statsConcurrency int
	statsTopN        int
	statsJSON        bool
)

func init() {
	statsCmd.Flags().BoolVar(&statsUseBrowser, "use-browser", false, "Render JavaScript-heavy pages with headless Chrome")
	statsCmd.Flags().IntVar(&statsConcurrency, "concurrency", 0, "Pages fetched in parallel (default from config)")
	statsCmd.Flags().IntVar(&statsTopN, "top", 0, "Number of domains and extensions listed (default from config)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if statsUseBrowser {
			cfg.Stats.UseBrowser = true
		}
		if statsConcurrency > 0 {
			cfg.Stats.Concurrency = statsConcurrency
		}
		if statsTopN > 0 {
			cfg.Stats.TopN = statsTopN
		}
	})
	if err != nil {
		return err
	}

	opts, done, err := pipelineOptions(cmd, cfg)
	if err != nil {
		return err
	}
	defer done()

	report, err := pipeline.RunStats(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("statistics failed: %w", err)
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d documents are Tetun; %d pages inspected\n",
		report.AdmittedDocuments, report.Documents, report.Pages)
	return nil
}
