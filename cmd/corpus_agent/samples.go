package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/config"
	"github.com/jonathan/tetun-corpus/internal/pipeline"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Write random corpus samples for manual evaluation",
	RunE:  runSamples,
}

var (
	samplesCount    int
	samplesSegments int
	samplesOutDir   string
	samplesCorpus   string
)

func init() {
	samplesCmd.Flags().IntVar(&samplesCount, "samples", 0, "Number of sample files (default from config)")
	samplesCmd.Flags().IntVar(&samplesSegments, "segments", 0, "Segments per sample (default from config)")
	samplesCmd.Flags().StringVarP(&samplesOutDir, "out-dir", "o", "", "Directory for sample files")
	samplesCmd.Flags().StringVar(&samplesCorpus, "corpus", "", "Corpus file to sample from")

	rootCmd.AddCommand(samplesCmd)
}

func runSamples(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if samplesCount > 0 {
			cfg.Eval.Samples = samplesCount
		}
		if samplesSegments > 0 {
			cfg.Eval.SegmentsPerSample = samplesSegments
		}
		if samplesOutDir != "" {
			cfg.Paths.EvalDir = samplesOutDir
		}
		if samplesCorpus != "" {
			cfg.Paths.Corpus = samplesCorpus
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

	paths, err := pipeline.RunSamples(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("sample generation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d samples to %s\n", len(paths), cfg.Paths.EvalDir)
	return nil
}
