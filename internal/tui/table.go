package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/oraspectre/internal/models"
)

var tableColumns = []table.Column{
	{Title: "Risk", Width: 10},
	{Title: "ID", Width: 6},
	{Title: "Description", Width: 34},
	{Title: "Fix", Width: 10},
	{Title: "Output", Width: 10},
}

// buildRows converts check results to table rows.
func buildRows(results []models.CheckResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for _, res := range results {
		rows = append(rows, table.Row{
			riskLabel(res.Definition.Risk),
			res.Definition.ID,
			truncate(res.Definition.Description, tableColumns[2].Width),
			string(res.Definition.FixType),
			outputCell(res),
		})
	}
	return rows
}

func riskLabel(r models.RiskLevel) string {
	switch r {
	case models.RiskCritical:
		return "CRITICAL"
	case models.RiskHigh:
		return "HIGH"
	case models.RiskMedium:
		return "MEDIUM"
	case models.RiskLow:
		return "LOW"
	default:
		return string(r)
	}
}

// outputCell summarizes a check's output: error marker or line count.
func outputCell(res models.CheckResult) string {
	if res.ErrorMarked() {
		return "error"
	}
	return fmt.Sprintf("%d line(s)", outputLines(res.RawOutput))
}

// outputLines counts non-empty lines in raw client output.
func outputLines(raw string) int {
	n := 0
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	const ellipsis = "..."
	if maxLen <= len(ellipsis) {
		return s[:maxLen]
	}
	return s[:maxLen-len(ellipsis)] + ellipsis
}

// newTable creates a bubbles table with standard columns and styling.
func newTable(rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}
