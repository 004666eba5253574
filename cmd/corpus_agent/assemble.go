package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/config"
	"github.com/jonathan/tetun-corpus/internal/pipeline"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Build the corpus file from crawled documents",
	Long: "Walk every document of the configured source, keep the lines the language model " +
		"identifies as Tetun, drop boilerplate and duplicates, and write the corpus file.",
	RunE: runAssemble,
}

var (
	assembleSource        string
	assembleURL           string
	assembleIndex         string
	assembleOut           string
	assembleMaxDocs       int
	assembleMinLineLength int
)

func init() {
	assembleCmd.Flags().StringVar(&assembleSource, "source", "", "Document source: solr, elasticsearch or web")
	assembleCmd.Flags().StringVar(&assembleURL, "url", "", "Source endpoint URL")
	assembleCmd.Flags().StringVar(&assembleIndex, "index", "", "Elasticsearch index name")
	assembleCmd.Flags().StringVarP(&assembleOut, "out", "o", "", "Path to the corpus file")
	assembleCmd.Flags().IntVar(&assembleMaxDocs, "max-docs", 0, "Stop after this many documents (0 = all)")
	assembleCmd.Flags().IntVar(&assembleMinLineLength, "min-line-length", -1, "Drop lines of at most this many characters (0 disables)")

	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if assembleSource != "" {
			cfg.Source.Kind = assembleSource
		}
		if assembleURL != "" {
			cfg.Source.URL = assembleURL
		}
		if assembleIndex != "" {
			cfg.Source.Index = assembleIndex
		}
		if assembleOut != "" {
			cfg.Paths.Corpus = assembleOut
		}
		if assembleMaxDocs > 0 {
			cfg.Source.MaxDocs = assembleMaxDocs
		}
		if assembleMinLineLength >= 0 {
			cfg.Assemble.MinLineLength = assembleMinLineLength
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

	res, err := pipeline.RunAssemble(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("corpus assembly failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d lines from %d documents to %s\n",
		res.Report.Written, res.Report.Documents, res.CorpusPath)
	return nil
}
