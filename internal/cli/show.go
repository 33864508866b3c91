package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/oraspectre/internal/models"
	"github.com/ppiankov/oraspectre/internal/reporter"
	"github.com/ppiankov/oraspectre/internal/storage"
	"github.com/ppiankov/oraspectre/internal/tui"
)

// historyDepth caps the error sparkline window in the TUI header
const historyDepth = 10

var (
	showLatest bool
	showPlain  bool
)

var showCmd = &cobra.Command{
	Use:   "show [timestamp]",
	Short: "Browse a stored run in the interactive TUI",
	Long: `Show opens a stored audit run in the terminal browser: filter checks
by risk, search descriptions and output, sort, and copy a check's raw
output with 'c'. The header sparkline tracks error-marked counts across
recent runs.

Without a timestamp the most recent run is shown. Timestamps come from
'oraspectre runs'. Use --plain for the text summary without the TUI.

Example:
  oraspectre show --latest
  oraspectre show 2026-02-15T10-30-45
  oraspectre show --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showLatest, "latest", false,
		"show the most recent stored run (default when no timestamp given)")
	showCmd.Flags().BoolVar(&showPlain, "plain", false,
		"print the text summary instead of launching the TUI")
}

func runShow(cmd *cobra.Command, args []string) error {
	storageDir, err := cfg.GetStoragePath()
	if err != nil {
		return err
	}

	if showLatest && len(args) == 1 {
		return &ValidationError{Message: "cannot combine --latest with an explicit timestamp"}
	}

	store := storage.NewLocal(storageDir)

	var run *models.AuditRun
	if len(args) == 1 {
		ts, perr := time.Parse(storage.TimestampLayout, args[0])
		if perr != nil {
			return &ValidationError{
				Message: fmt.Sprintf("invalid timestamp %q (expected form %s)", args[0], storage.TimestampLayout),
			}
		}
		run, err = store.LoadRun(ts)
	} else {
		run, err = store.GetLatestRun()
	}
	if err != nil {
		fmt.Println("No stored runs found. Run 'oraspectre audit' first.")
		return err
	}

	if showPlain {
		return reporter.NewTextReporter(os.Stdout).Generate(run)
	}

	// History is best-effort: the browser works without a sparkline.
	recent, err := store.GetLastNRuns(historyDepth)
	if err != nil {
		logDebug("no run history: %v", err)
	}

	return tui.Run(run, errHistory(recent))
}

// errHistory maps stored runs to their error-marked counts, oldest first
func errHistory(runs []*models.AuditRun) []int {
	history := make([]int, 0, len(runs))
	for _, run := range runs {
		history = append(history, run.Summary.ErrorMarked)
	}
	return history
}
