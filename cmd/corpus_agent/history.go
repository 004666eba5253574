package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/tetun-corpus/internal/db"
	"github.com/jonathan/tetun-corpus/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs",
	Long:  "List recent runs recorded in the PostgreSQL run history (requires DATABASE_URL or database.url).",
	RunE:  runHistory,
}

var (
	historyCommand string
	historyStatus  string
	historyLimit   int
	historyRunID   string
)

func init() {
	historyCmd.Flags().StringVar(&historyCommand, "command", "", "Only runs of this command")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Only runs with this status (running, completed, failed)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs")
	historyCmd.Flags().StringVar(&historyRunID, "run-id", "", "Show the recorded outputs of one run")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyStatus != "" && !db.IsValidRunStatus(historyStatus) {
		return fmt.Errorf("invalid --status %q", historyStatus)
	}
	var runID uuid.UUID
	if historyRunID != "" {
		id, err := uuid.Parse(historyRunID)
		if err != nil {
			return fmt.Errorf("invalid --run-id: %w", err)
		}
		runID = id
	}
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}

	database, err := db.Connect(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.EnsureSchema(cmd.Context()); err != nil {
		return err
	}

	if runID != uuid.Nil {
		return showRun(cmd, database, runID)
	}

	runs, err := database.ListRuns(cmd.Context(), db.RunFilters{
		Command: historyCommand,
		Status:  historyStatus,
		Limit:   historyLimit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tSTATUS\tSTARTED\tDURATION")
	for _, run := range runs {
		duration := "-"
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.CreatedAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.Command, run.Status, run.CreatedAt.Format(time.RFC3339), duration)
	}
	return w.Flush()
}

// showRun prints one run and the artifacts it recorded.
func showRun(cmd *cobra.Command, database *db.DB, runID uuid.UUID) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	fmt.Fprintf(out, "Run %s (%s): %s\n", run.ID, run.Command, run.Status)
	if run.ErrorMessage != nil {
		fmt.Fprintf(out, "Error: %s\n", *run.ErrorMessage)
	}

	printer := observability.NewPrinter(out)

	meta, err := database.GetCorpusMetadata(ctx, runID)
	if err != nil {
		return err
	}
	report, err := database.GetAssemblyReport(ctx, runID)
	if err != nil {
		return err
	}
	if report != nil {
		corpusPath := ""
		if meta != nil {
			corpusPath = meta.Path
		}
		var elapsed time.Duration
		if run.CompletedAt != nil {
			elapsed = run.CompletedAt.Sub(run.CreatedAt)
		}
		printer.PrintAssemblyReport(corpusPath, report, elapsed)
	}
	if meta != nil {
		data, err := meta.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", data)
	}

	discovery, err := database.GetDiscoveryResult(ctx, runID)
	if err != nil {
		return err
	}
	if discovery != nil {
		printer.PrintDiscoveryResult(discovery)
		urls, err := database.ListDiscoveredURLs(ctx, runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d seed URLs recorded\n", len(urls))
	}
	return nil
}
