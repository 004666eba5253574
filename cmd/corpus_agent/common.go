package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/config"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/pipeline"
)

// loadConfig reads the configuration, applies root flag overrides and
// validates the result after override is called with the loaded config.
func loadConfig(override func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pipelineOptions builds pipeline options with a logger for cfg.
func pipelineOptions(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, func(), error) {
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return pipeline.Options{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	opts := pipeline.Options{
		Config:  cfg,
		Verbose: verbose,
		Out:     cmd.OutOrStdout(),
		Logger:  log,
	}
	return opts, func() { _ = log.Sync() }, nil
}
