package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/oraspectre/internal/models"
	"github.com/ppiankov/oraspectre/internal/storage"
)

var (
	runsLast   int
	runsFormat string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored audit runs",
	Long: `Runs lists every stored audit run with its check count and error
status. The printed timestamp is the key 'oraspectre show' accepts.

Example:
  oraspectre runs
  oraspectre runs --last 5
  oraspectre runs --format json`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLast, "last", 0,
		"show only the last N runs (0 = all)")
	runsCmd.Flags().StringVar(&runsFormat, "format", "text",
		"output format: text or json")
}

// runListEntry is one row of the runs listing
type runListEntry struct {
	Timestamp   string `json:"timestamp"`
	TotalChecks int    `json:"total_checks"`
	ErrorMarked int    `json:"error_marked"`
	ReportPath  string `json:"report_path,omitempty"`
}

func runRuns(cmd *cobra.Command, args []string) error {
	storageDir, err := cfg.GetStoragePath()
	if err != nil {
		return err
	}

	store := storage.NewLocal(storageDir)
	timestamps, err := store.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(timestamps) == 0 {
		fmt.Println("No stored runs found. Run 'oraspectre audit' first.")
		return nil
	}

	if runsLast > 0 && len(timestamps) > runsLast {
		timestamps = timestamps[len(timestamps)-runsLast:]
	}

	runs := make([]*models.AuditRun, 0, len(timestamps))
	for _, ts := range timestamps {
		run, err := store.LoadRun(ts)
		if err != nil {
			logError("Failed to load run %s: %v", ts.Format(storage.TimestampLayout), err)
			continue
		}
		runs = append(runs, run)
	}

	if runsFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runEntries(runs))
	}

	return writeRunsText(os.Stdout, runs)
}

func runEntries(runs []*models.AuditRun) []runListEntry {
	entries := make([]runListEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, runListEntry{
			Timestamp:   run.Timestamp.Format(storage.TimestampLayout),
			TotalChecks: run.Summary.TotalChecks,
			ErrorMarked: run.Summary.ErrorMarked,
			ReportPath:  run.ReportPath,
		})
	}
	return entries
}

func writeRunsText(w io.Writer, runs []*models.AuditRun) error {
	for _, run := range runs {
		status := "clean"
		if run.Summary.ErrorMarked > 0 {
			status = fmt.Sprintf("%d error(s)", run.Summary.ErrorMarked)
		}
		fmt.Fprintf(w, "  %s  checks:%-3d %s\n",
			run.Timestamp.Format(storage.TimestampLayout), run.Summary.TotalChecks, status)
	}

	fmt.Fprintf(w, "\n%d stored run(s)\n", len(runs))
	return nil
}
