package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/oraspectre/internal/models"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 5

// renderDetail produces the detail view for a selected check result.
func renderDetail(res *models.CheckResult, width int) string {
	if res == nil {
		return styleDetailPanel.Width(width).Render("No check selected")
	}

	var b strings.Builder
	def := res.Definition

	riskStyled := riskStyle(def.Risk).Render(riskLabel(def.Risk))
	b.WriteString(fmt.Sprintf("%s  [%s] %s\n", riskStyled, def.ID, def.Description))
	b.WriteString(fmt.Sprintf("Fix: %s  Remediation: %s\n", def.FixType, def.Remediation))

	preview := firstLine(res.RawOutput)
	if preview != "" {
		avail := width - 12
		if avail < 10 {
			avail = 10
		}
		b.WriteString(fmt.Sprintf("Output: %s\n", truncate(preview, avail)))
	}

	parts := make([]string, 0, 2)
	parts = append(parts, fmt.Sprintf("Lines: %d", outputLines(res.RawOutput)))
	if res.ErrorMarked() {
		parts = append(parts, riskStyle(models.RiskCritical).Render("ORA/SP2 error in output"))
	}
	b.WriteString(strings.Join(parts, "  "))

	return styleDetailPanel.Width(width).Render(b.String())
}

// firstLine returns the first non-empty line of raw output.
func firstLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
