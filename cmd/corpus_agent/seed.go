package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/config"
	"github.com/jonathan/tetun-corpus/internal/pipeline"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Search sampled corpus words for new seed URLs",
	Long: "Sample Tetun words from the corpus, search them with Google Programmable Search, and " +
		"append unseen result URLs and domains to the seed and domain lists.",
	RunE: runSeed,
}

var (
	seedRounds     int
	seedNumWords   int
	seedNumResults int
	seedRandom     uint64
)

func init() {
	seedCmd.Flags().IntVar(&seedRounds, "rounds", 1, "Number of sample-and-search rounds")
	seedCmd.Flags().IntVar(&seedNumWords, "num-words", 0, "Words per query (default from config)")
	seedCmd.Flags().IntVar(&seedNumResults, "num-results", 0, "Search results per query (default from config)")
	seedCmd.Flags().Uint64Var(&seedRandom, "random-seed", 0, "Seed for reproducible sampling")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if seedRounds < 1 {
		return fmt.Errorf("--rounds must be at least 1")
	}
	cfg, err := loadConfig(func(cfg *config.Config) {
		if seedNumWords > 0 {
			cfg.Seed.NumWords = seedNumWords
		}
		if seedNumResults > 0 {
			cfg.Seed.NumResults = seedNumResults
		}
		if seedRandom != 0 {
			cfg.Seed.RandomSeed = seedRandom
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
	opts.Rand = pipeline.NewRand(cfg.Seed.RandomSeed)

	total := 0
	for round := 1; round <= seedRounds; round++ {
		res, err := pipeline.RunSeed(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("seed round %d failed: %w", round, err)
		}
		if res.Discovery == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No seed words available from %s\n", cfg.Paths.Corpus)
			return nil
		}
		total += len(res.Discovery.SeedURLs)
		fmt.Fprintf(cmd.OutOrStdout(), "Round %d: %q -> %d seed URLs, %d new domains\n",
			round, res.Discovery.Query, len(res.Discovery.SeedURLs), len(res.Discovery.NewDomains))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d seed URLs in %d rounds\n", total, seedRounds)
	return nil
}
