package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run [steps...]",
	Short: "Run several steps in dependency order",
	Long: fmt.Sprintf("Run the named steps, and the steps they depend on, in order. "+
		"Without arguments every step runs. Steps: %s.", strings.Join(pipeline.StepNames(), ", ")),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	steps := args
	if len(steps) == 0 {
		steps = pipeline.StepNames()
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	opts, done, err := pipelineOptions(cmd, cfg)
	if err != nil {
		return err
	}
	defer done()

	completed, err := pipeline.RunSteps(cmd.Context(), steps, opts)
	if len(completed) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", strings.Join(completed, ", "))
	}
	return err
}
