package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/ingestion"
	"github.com/jonathan/tetun-corpus/internal/lid"
)

var trainLIDCmd = &cobra.Command{
	Use:   "train-lid label=path [label=path...]",
	Short: "Train the language identification model",
	Long: "Train the character n-gram language model from one text file per language. " +
		"At least two languages are required. Every non-blank line of a file is one sample of its label, e.g. tet=data/tetun.txt eng=data/english.txt.",
	Args: cobra.MinimumNArgs(2),
	RunE: runTrainLID,
}

var (
	trainOut      string
	trainNgramMin int
	trainNgramMax int
)

func init() {
	trainLIDCmd.Flags().StringVarP(&trainOut, "out", "o", "", "Path to write the model (default from config)")
	trainLIDCmd.Flags().IntVar(&trainNgramMin, "ngram-min", lid.DefaultNgramMin, "Smallest character n-gram")
	trainLIDCmd.Flags().IntVar(&trainNgramMax, "ngram-max", lid.DefaultNgramMax, "Largest character n-gram")

	rootCmd.AddCommand(trainLIDCmd)
}

// labeledPath is one label=path argument.
type labeledPath struct {
	Label string
	Path  string
}

func parseLabeledPaths(args []string) ([]labeledPath, error) {
	out := make([]labeledPath, 0, len(args))
	seen := make(map[string]bool)
	for _, arg := range args {
		label, path, ok := strings.Cut(arg, "=")
		label, path = strings.TrimSpace(label), strings.TrimSpace(path)
		if !ok || label == "" || path == "" {
			return nil, fmt.Errorf("invalid argument %q: expected label=path", arg)
		}
		if seen[label] {
			return nil, fmt.Errorf("label %q given more than once", label)
		}
		seen[label] = true
		out = append(out, labeledPath{Label: label, Path: path})
	}
	return out, nil
}

func loadSamples(inputs []labeledPath) ([]lid.LabeledText, error) {
	var samples []lid.LabeledText
	for _, in := range inputs {
		lines, err := ingestion.LoadLines(in.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s samples: %w", in.Label, err)
		}
		n := 0
		for _, line := range lines {
			if line = strings.TrimSpace(line); line != "" {
				samples = append(samples, lid.LabeledText{Label: in.Label, Text: line})
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("no %s samples in %s", in.Label, in.Path)
		}
	}
	return samples, nil
}

func runTrainLID(cmd *cobra.Command, args []string) error {
	inputs, err := parseLabeledPaths(args)
	if err != nil {
		return err
	}

	out := trainOut
	if out == "" {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		out = cfg.Paths.LIDModel
	}

	samples, err := loadSamples(inputs)
	if err != nil {
		return err
	}

	model, err := lid.Train(samples, lid.TrainOptions{
		NgramMin: trainNgramMin,
		NgramMax: trainNgramMax,
	})
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	if err := model.Save(out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Trained on %d samples (%s); model written to %s\n",
		len(samples), strings.Join(model.Classes(), ", "), out)
	return nil
}
