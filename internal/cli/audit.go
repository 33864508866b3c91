package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/oraspectre/internal/checks"
	"github.com/ppiankov/oraspectre/internal/models"
	"github.com/ppiankov/oraspectre/internal/policy"
	"github.com/ppiankov/oraspectre/internal/prompt"
	"github.com/ppiankov/oraspectre/internal/reporter"
	"github.com/ppiankov/oraspectre/internal/runner"
	"github.com/ppiankov/oraspectre/internal/sqlclient"
	"github.com/ppiankov/oraspectre/internal/storage"
	"github.com/ppiankov/oraspectre/internal/sysinfo"
)

var (
	auditFormat string
	auditClient string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the interactive Oracle CIS audit",
	Long: `Audit connects to an Oracle database and runs every check in the
fixed CIS registry:

  1. Collect — prompt for host, port, service, username, password
  2. Probe   — verify connectivity with a SELECT 1 round trip
  3. Execute — run each check query through the SQL client in order
  4. Report  — write the HTML report and plain-text results file

Connection parameters are read interactively and kept in memory only.
The stored run record carries results and summary, never credentials.

A check whose output contains ORA- or SP2- markers is flagged in the
summary but never stops the run. Place an .oraspectre-policy.yaml in
the working tree to gate the exit code on run results.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditFormat, "format", "",
		"summary format: text, json, or both (default from config)")
	auditCmd.Flags().StringVar(&auditClient, "client", "",
		"SQL client binary (default from config)")
}

func runAudit(cmd *cobra.Command, args []string) error {
	// Flag overrides
	if auditFormat != "" {
		cfg.Format = auditFormat
	}
	if auditClient != "" {
		cfg.Client = auditClient
	}
	if !validFormat(cfg.Format) {
		return &ValidationError{
			Message: fmt.Sprintf("invalid format: %s (must be text, json, or both)", cfg.Format),
		}
	}

	binPath, err := sqlclient.Locate(cfg.Client)
	if err != nil {
		return fmt.Errorf("sql client %q not found in PATH (install an Oracle client or set client: in config)", cfg.Client)
	}
	logVerbose("using sql client %s", binPath)

	fmt.Println("🔐 Oracle Database CIS Audit")

	params, err := prompt.NewTerminal().Collect()
	if err != nil {
		return fmt.Errorf("failed to read connection parameters: %w", err)
	}

	client := sqlclient.New(cfg.Client, nil, cfg.ClientTimeout())
	return executeAudit(context.Background(), client, params)
}

// executeAudit drives the probe-run-report pipeline for collected
// connection parameters. Split from runAudit so tests can feed it a
// client with a stubbed exec function.
func executeAudit(ctx context.Context, client *sqlclient.Client, params models.ConnectionParams) error {
	fmt.Println("🧪 Connecting to Oracle...")
	logDebug("dialing %s", sqlclient.RedactedDescriptor(params))

	probeOut, connected, err := client.Probe(ctx, params)
	if err != nil && probeOut == "" {
		return fmt.Errorf("connection probe failed: %w", err)
	}
	if !connected {
		fmt.Println("❌ Connection failed:", strings.TrimSpace(probeOut))
		return &AuditFailError{Message: "unable to connect to the database"}
	}
	fmt.Println("✅ Connected.")

	reportDir, err := cfg.GetReportPath()
	if err != nil {
		return err
	}
	storageDir, err := cfg.GetStoragePath()
	if err != nil {
		return err
	}

	start := time.Now()
	artifacts := runner.NewArtifacts(reportDir, ".", start)
	logDebug("run tag %s", artifacts.Tag)

	r := runner.New(client, artifacts.Scratch, artifacts.Results)
	r.Progress = func(index, total int, def models.CheckDefinition) {
		logVerbose("check %d/%d: [%s] %s", index+1, total, def.ID, def.Description)
	}

	results, err := r.Run(ctx, params, checks.Registry)
	if err != nil {
		return fmt.Errorf("audit run failed: %w", err)
	}

	run := &models.AuditRun{
		Timestamp:   start,
		Duration:    time.Since(start),
		Results:     results,
		Summary:     models.Summarize(results),
		ReportPath:  artifacts.Report,
		ResultsPath: artifacts.Results,
		Scanner:     sysinfo.Collect(),
	}

	if err := reporter.WriteHTML(artifacts.Report, run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("📄 Report saved to: %s\n", artifacts.Report)

	if err := printSummaries(run, cfg.Format, os.Stdout); err != nil {
		return err
	}

	// Storage is best-effort: the report and results file are already on
	// disk, so a failed save only costs history.
	store := storage.NewLocal(storageDir)
	if err := store.EnsureDirectoryExists(); err != nil {
		logError("Failed to create storage directory: %v", err)
	} else if err := store.SaveRun(run); err != nil {
		logError("Failed to store run: %v", err)
	} else {
		logVerbose("run stored under %s", store.GetStoragePath())
	}

	return applyPolicyGate(run)
}

// printSummaries renders the post-audit summary in the chosen format.
// The HTML report and results file are written regardless of format.
func printSummaries(run *models.AuditRun, format string, w io.Writer) error {
	switch format {
	case "json":
		return reporter.NewJSONReporter(w, true).GenerateSummaryOnly(run)
	case "both":
		if err := reporter.NewTextReporter(w).Generate(run); err != nil {
			return err
		}
		return reporter.NewJSONReporter(w, true).GenerateSummaryOnly(run)
	default:
		return reporter.NewTextReporter(w).Generate(run)
	}
}

// applyPolicyGate evaluates the discovered policy file against the run.
// No policy file means no gate.
func applyPolicyGate(run *models.AuditRun) error {
	path := policy.FindPolicyFile()
	if path == "" {
		return nil
	}

	pol, err := policy.LoadFromFile(path)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("invalid policy file %s: %v", path, err)}
	}
	if pol == nil {
		return nil
	}

	logVerbose("policy gate: %s", path)
	res := pol.Evaluate(run)
	if res.Pass {
		logVerbose("policy gate passed")
		return nil
	}

	fmt.Println("\nPolicy violations:")
	for _, v := range res.Violations {
		fmt.Printf("  ✗ [%s] %s\n", v.Rule, v.Message)
	}
	return &AuditFailError{Message: fmt.Sprintf("%d policy violation(s)", len(res.Violations))}
}

// validFormat reports whether format names a supported summary format
func validFormat(format string) bool {
	switch format {
	case "text", "json", "both":
		return true
	}
	return false
}
