package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/oraspectre/internal/models"
	"github.com/ppiankov/oraspectre/internal/reporter"
	"github.com/ppiankov/oraspectre/internal/storage"
)

var (
	diffFormat   string
	diffOutput   string
	diffBaseline string
	diffFailNew  bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what changed between two audit runs",
	Long: `Compare the latest audit run against a baseline to show drift.

A check counts as drift when its error state flips or its raw output
changes between runs. New errors are checks whose output gained an
ORA-/SP2- marker since the baseline; resolved errors lost one.

By default compares the two most recent stored runs. Use --baseline to
specify a stored run JSON file as the comparison target.

Exit codes:
  0  No new errors (or --fail-new not set)
  1  New errors detected (with --fail-new)

Example:
  oraspectre diff
  oraspectre diff --fail-new
  oraspectre diff --baseline ./baseline.json --format json`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text",
		"output format: text or json")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "",
		"write output to file instead of stdout")
	diffCmd.Flags().StringVar(&diffBaseline, "baseline", "",
		"path to baseline run JSON (default: previous stored run)")
	diffCmd.Flags().BoolVar(&diffFailNew, "fail-new", false,
		"exit 1 if new error-marked checks are found (for CI gating)")
}

// DiffResult is the structured output of a diff operation.
type DiffResult struct {
	Baseline       string      `json:"baseline"`
	Current        string      `json:"current"`
	NewErrors      []DiffEntry `json:"new_errors"`
	ResolvedErrors []DiffEntry `json:"resolved_errors"`
	ChangedOutput  []DiffEntry `json:"changed_output"`
	Summary        DiffSummary `json:"summary"`
}

// DiffEntry identifies one drifted check.
type DiffEntry struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Risk        models.RiskLevel `json:"risk"`
}

// DiffSummary holds aggregate counts for a diff.
type DiffSummary struct {
	BaselineErrors int `json:"baseline_errors"`
	CurrentErrors  int `json:"current_errors"`
	NewCount       int `json:"new_count"`
	ResolvedCount  int `json:"resolved_count"`
	ChangedCount   int `json:"changed_count"`
	Delta          int `json:"delta"` // positive = more errors
}

func runDiff(cmd *cobra.Command, args []string) error {
	storageDir, err := cfg.GetStoragePath()
	if err != nil {
		return err
	}

	store := storage.NewLocal(storageDir)

	// Load current (latest) run.
	current, err := store.GetLatestRun()
	if err != nil {
		logError("No current run found: %v", err)
		fmt.Println("No stored runs found. Run 'oraspectre audit' first.")
		return err
	}

	// Load baseline.
	var baseline *models.AuditRun
	if diffBaseline != "" {
		baseline, err = loadRunFromFile(diffBaseline)
		if err != nil {
			logError("Failed to load baseline: %v", err)
			return err
		}
	} else {
		runs, err := store.GetLastNRuns(2)
		if err != nil || len(runs) < 2 {
			fmt.Println("Need at least 2 stored runs for diff.")
			fmt.Println("Run 'oraspectre audit' to generate more runs.")
			return nil
		}
		baseline = runs[0]
	}

	logVerbose("Comparing %s (current) vs %s (baseline)",
		current.Timestamp.Format("2006-01-02 15:04"),
		baseline.Timestamp.Format("2006-01-02 15:04"))

	result := computeDiff(baseline, current)

	if err := outputDiff(result, diffFormat, diffOutput); err != nil {
		return err
	}

	// CI gate.
	if diffFailNew && result.Summary.NewCount > 0 {
		return &AuditFailError{
			Message: fmt.Sprintf("%d new error-marked check(s)", result.Summary.NewCount),
		}
	}

	return nil
}

// computeDiff calculates drifted checks between baseline and current.
// Checks are keyed by control id; a check present in only one run counts
// as drift on the side it appears.
func computeDiff(baseline, current *models.AuditRun) *DiffResult {
	baseSet := make(map[string]models.CheckResult, len(baseline.Results))
	for _, res := range baseline.Results {
		baseSet[res.Definition.ID] = res
	}

	var newErrors, resolvedErrors, changedOutput []DiffEntry

	for _, res := range current.Results {
		base, found := baseSet[res.Definition.ID]

		switch {
		case res.ErrorMarked() && (!found || !base.ErrorMarked()):
			newErrors = append(newErrors, entryFor(res))
		case found && base.ErrorMarked() && !res.ErrorMarked():
			resolvedErrors = append(resolvedErrors, entryFor(res))
		case found && base.RawOutput != res.RawOutput:
			changedOutput = append(changedOutput, entryFor(res))
		}
	}

	// Error-marked checks that vanished from the registry resolve too.
	currIDs := make(map[string]bool, len(current.Results))
	for _, res := range current.Results {
		currIDs[res.Definition.ID] = true
	}
	for _, res := range baseline.Results {
		if res.ErrorMarked() && !currIDs[res.Definition.ID] {
			resolvedErrors = append(resolvedErrors, entryFor(res))
		}
	}

	return &DiffResult{
		Baseline:       baseline.Timestamp.Format("2006-01-02 15:04:05"),
		Current:        current.Timestamp.Format("2006-01-02 15:04:05"),
		NewErrors:      newErrors,
		ResolvedErrors: resolvedErrors,
		ChangedOutput:  changedOutput,
		Summary: DiffSummary{
			BaselineErrors: baseline.Summary.ErrorMarked,
			CurrentErrors:  current.Summary.ErrorMarked,
			NewCount:       len(newErrors),
			ResolvedCount:  len(resolvedErrors),
			ChangedCount:   len(changedOutput),
			Delta:          current.Summary.ErrorMarked - baseline.Summary.ErrorMarked,
		},
	}
}

func entryFor(res models.CheckResult) DiffEntry {
	return DiffEntry{
		ID:          res.Definition.ID,
		Description: res.Definition.Description,
		Risk:        res.Definition.Risk,
	}
}

// loadRunFromFile loads an AuditRun from a stored run JSON path.
func loadRunFromFile(path string) (*models.AuditRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var run models.AuditRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}

	return &run, nil
}

// outputDiff renders the diff result to the chosen format.
func outputDiff(result *DiffResult, format, outputPath string) error {
	var writer *os.File
	if outputPath != "" {
		var err error
		writer, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = writer.Close() }()
	} else {
		writer = os.Stdout
	}

	switch format {
	case "json":
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		return printDiffText(writer, result)
	default:
		return &ValidationError{
			Message: fmt.Sprintf("unsupported format: %s (use text or json)", format),
		}
	}
}

func printDiffText(w *os.File, r *DiffResult) error {
	p := func(format string, args ...interface{}) {
		_, _ = fmt.Fprintf(w, format, args...)
	}

	p("╔══════════════════════════════════════════════╗\n")
	p("║          Oracle CIS Audit Drift              ║\n")
	p("╚══════════════════════════════════════════════╝\n\n")

	p("Baseline: %s\n", r.Baseline)
	p("Current:  %s\n\n", r.Current)

	// Summary line.
	deltaSign := "+"
	if r.Summary.Delta < 0 {
		deltaSign = ""
	}
	p("Errors: %d → %d (%s%d)\n", r.Summary.BaselineErrors, r.Summary.CurrentErrors, deltaSign, r.Summary.Delta)
	p("New: %d   Resolved: %d   Changed output: %d\n\n",
		r.Summary.NewCount, r.Summary.ResolvedCount, r.Summary.ChangedCount)

	if len(r.NewErrors) > 0 {
		p("New Errors:\n")
		p("--------------------------------------------------\n")
		for _, e := range r.NewErrors {
			p("  %s %-4s %s\n", reporter.RiskBadge(e.Risk), e.ID, e.Description)
		}
		p("\n")
	}

	if len(r.ResolvedErrors) > 0 {
		p("Resolved Errors:\n")
		p("--------------------------------------------------\n")
		for _, e := range r.ResolvedErrors {
			p("  ✓ %-4s %s\n", e.ID, e.Description)
		}
		p("\n")
	}

	if len(r.ChangedOutput) > 0 {
		p("Changed Output:\n")
		p("--------------------------------------------------\n")
		for _, e := range r.ChangedOutput {
			p("  ~ %-4s %s\n", e.ID, e.Description)
		}
		p("\n")
	}

	if r.Summary.NewCount == 0 && r.Summary.ResolvedCount == 0 && r.Summary.ChangedCount == 0 {
		p("No drift detected.\n")
	} else if r.Summary.NewCount == 0 {
		p("No new errors.\n")
	}

	return nil
}
