package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/oraspectre/internal/models"
)

// JSONReporter generates machine-readable run summaries
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// Generate writes the full audit run as JSON
func (r *JSONReporter) Generate(run *models.AuditRun) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(run, "", "  ")
	} else {
		data, err = json.Marshal(run)
	}

	if err != nil {
		return err
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return err
	}

	// Add trailing newline for terminal output
	_, err = r.writer.Write([]byte("\n"))
	return err
}

// GenerateSummaryOnly writes a compact summary without per-check raw output
func (r *JSONReporter) GenerateSummaryOnly(run *models.AuditRun) error {
	summary := struct {
		Timestamp   string             `json:"timestamp"`
		Duration    string             `json:"duration"`
		Summary     models.RunSummary  `json:"summary"`
		ReportPath  string             `json:"report_path"`
		ResultsPath string             `json:"results_path,omitempty"`
		Scanner     models.HostContext `json:"scanner"`
	}{
		Timestamp:   run.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Duration:    run.Duration.String(),
		Summary:     run.Summary,
		ReportPath:  run.ReportPath,
		ResultsPath: run.ResultsPath,
		Scanner:     run.Scanner,
	}

	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}

	if err != nil {
		return err
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return err
	}

	// Add trailing newline
	_, err = r.writer.Write([]byte("\n"))
	return err
}
