package models

import (
	"strings"
	"time"
)

// RiskLevel classifies a check's severity, used for report styling and sorting
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Class returns the lowercased CSS class for a risk level.
// Values outside the four defined levels still lowercase cleanly and
// simply match no predefined style in the report.
func (r RiskLevel) Class() string {
	return strings.ToLower(string(r))
}

// Rank orders risk levels for sorting, most severe first
func (r RiskLevel) Rank() int {
	switch r {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	case RiskLow:
		return 3
	default:
		return 4
	}
}

// FixType classifies remediation effort, informational only
type FixType string

const (
	FixQuick    FixType = "Quick"
	FixPlanned  FixType = "Planned"
	FixInvolved FixType = "Involved"
)

// ConnectionParams holds the interactively collected connection input.
// Port is kept verbatim as entered (an empty answer defaults to "1521").
// The struct lives in process memory for the duration of the run and is
// never written to storage or reports.
type ConnectionParams struct {
	Host     string
	Port     string
	Service  string
	Username string
	Password string
}

/// CheckDefinition is one registry entry: pure data, immutable after start
type CheckDefinition struct {
	ID          string    `json:"id" validate:"required,control_id"`
	Description string    `json:"description" validate:"required"`
	Query       string    `json:"query" validate:"required"`
	Risk        RiskLevel `json:"risk" validate:"required,oneof=Low Medium High Critical"`
	FixType     FixType   `json:"fix_type" validate:"required,oneof=Quick Planned Involved"`
	Remediation string    `json:"remediation" validate:"required"`
}

// CheckResult pairs a definition with the raw client output of its query
type CheckResult struct {
	Definition CheckDefinition `json:"definition"`
	RawOutput  string          `json:"raw_output"`
}

// Oracle client error prefixes used by the error-marker heuristic
const (
	markerORA = "ORA-"
	markerSP2 = "SP2-"
)

// ErrorMarked reports whether the raw output looks like a client error.
// Informational only: the HTML report renders raw output either way.
func (c CheckResult) ErrorMarked() bool {
	return strings.Contains(c.RawOutput, markerORA) || strings.Contains(c.RawOutput, markerSP2)
}

// AuditRun is one completed audit: results in execution order plus metadata.
// Connection parameters are deliberately absent.
type AuditRun struct {
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration"`
	Results     []CheckResult `json:"results"`
	Summary     RunSummary    `json:"summary"`
	ReportPath  string        `json:"report_path"`
	ResultsPath string        `json:"results_path"`
	Scanner     HostContext   `json:"scanner"`
}

// RunSummary provides aggregate statistics for one run
type RunSummary struct {
	TotalChecks int            `json:"total_checks"`
	ByRisk      map[string]int `json:"by_risk"`      // keyed by lowercased risk level
	ErrorMarked int            `json:"error_marked"` // checks whose output contains ORA-/SP2-
}

// HostContext describes the machine the audit ran from
type HostContext struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform,omitempty"`
	PlatformVersion string `json:"platform_version,omitempty"`
	KernelVersion   string `json:"kernel_version,omitempty"`
	Arch            string `json:"arch"`
	UptimeSeconds   uint64 `json:"uptime_seconds,omitempty"`
}

// Summarize computes run statistics from results
func Summarize(results []CheckResult) RunSummary {
	summary := RunSummary{
		TotalChecks: len(results),
		ByRisk:      make(map[string]int),
	}

	for _, res := range results {
		summary.ByRisk[res.Definition.Risk.Class()]++
		if res.ErrorMarked() {
			summary.ErrorMarked++
		}
	}

	return summary
}
