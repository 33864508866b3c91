package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/ppiankov/oraspectre/internal/models"
)

// Color helpers — each returns a sprint function.
var (
	cBold   = color.New(color.Bold).SprintFunc()
	cGreen  = color.New(color.FgGreen).SprintFunc()
	cRed    = color.New(color.FgRed).SprintFunc()
	cYellow = color.New(color.FgYellow).SprintFunc()
	cDim    = color.New(color.Faint).SprintFunc()

	cRedBold = color.New(color.FgRed, color.Bold).SprintFunc()
)

// riskOrder is the display order for risk buckets, most severe first
var riskOrder = []models.RiskLevel{
	models.RiskCritical,
	models.RiskHigh,
	models.RiskMedium,
	models.RiskLow,
}

// RiskBadge returns the colored short badge for a risk level
func RiskBadge(risk models.RiskLevel) string {
	padded := fmt.Sprintf("%-6s", riskBadgeRaw(risk))
	switch risk {
	case models.RiskCritical:
		return cRedBold(padded)
	case models.RiskHigh:
		return cRed(padded)
	case models.RiskMedium:
		return cYellow(padded)
	case models.RiskLow:
		return cGreen(padded)
	default:
		return padded
	}
}

func riskBadgeRaw(risk models.RiskLevel) string {
	switch risk {
	case models.RiskCritical:
		return "[CRIT]"
	case models.RiskHigh:
		return "[HIGH]"
	case models.RiskMedium:
		return "[MED]"
	case models.RiskLow:
		return "[LOW]"
	default:
		return "[----]"
	}
}

// TextReporter generates human-readable run summaries
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer: writer,
	}
}

// Generate writes a summary of one audit run
func (r *TextReporter) Generate(run *models.AuditRun) error {
	r.printHeader()
	r.printf("Timestamp: %s\n", formatTimestamp(run.Timestamp))
	r.printf("Duration:  %s\n", run.Duration.Round(time.Millisecond))
	if run.Scanner.Hostname != "" {
		r.printf("Scanner:   %s (%s/%s)\n", run.Scanner.Hostname, run.Scanner.OS, run.Scanner.Arch)
	}
	r.printf("\n")

	r.printChecks(run)
	r.printSummary(run)
	r.printPaths(run)

	return nil
}

// printHeader prints the summary header
func (r *TextReporter) printHeader() {
	r.printf("╔══════════════════════════════════════════════╗\n")
	r.printf("║         Oracle CIS Audit Run Summary         ║\n")
	r.printf("╚══════════════════════════════════════════════╝\n\n")
}

// printChecks prints one line per executed check, in execution order
func (r *TextReporter) printChecks(run *models.AuditRun) {
	r.printf("Checks:\n")
	r.printf("--------------------------------------------------\n")
	for _, res := range run.Results {
		def := res.Definition
		marker := ""
		if res.ErrorMarked() {
			marker = " " + cRed("(error output)")
		}
		r.printf("  %s %-4s %s%s\n", RiskBadge(def.Risk), def.ID, def.Description, marker)
	}
	r.printf("\n")
}

// printSummary prints aggregate counts for the run
func (r *TextReporter) printSummary(run *models.AuditRun) {
	r.printf("Summary:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Checks Run: %d\n", run.Summary.TotalChecks)

	for _, risk := range riskOrder {
		if count := run.Summary.ByRisk[risk.Class()]; count > 0 {
			r.printf("  %s %d\n", RiskBadge(risk), count)
		}
	}

	if run.Summary.ErrorMarked > 0 {
		r.printf("  %s %d check(s) returned ORA-/SP2- output\n",
			cRedBold("Errors:"), run.Summary.ErrorMarked)
	} else {
		r.printf("  %s no ORA-/SP2- markers in any output\n", cGreen("Clean:"))
	}
	r.printf("\n")
}

// printPaths prints the artifact locations for the run
func (r *TextReporter) printPaths(run *models.AuditRun) {
	r.printf("Report:  %s\n", cBold(run.ReportPath))
	if run.ResultsPath != "" {
		r.printf("Results: %s\n", cDim(run.ResultsPath))
	}
}

// printf is a helper to write formatted output
func (r *TextReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.writer, format, args...)
}
