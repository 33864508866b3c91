package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/oraspectre/internal/models"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 5

// renderHeader produces the header string for one audit run. errHistory
// carries the error-marked counts of recent runs, oldest first, for the
// sparkline.
func renderHeader(run *models.AuditRun, errHistory []int, width int) string {
	var b strings.Builder

	// Line 1: title, run timestamp and status
	status := "CLEAN"
	if run.Summary.ErrorMarked > 0 {
		status = fmt.Sprintf("%d ERROR(S)", run.Summary.ErrorMarked)
	}
	statusText := statusStyle(run.Summary.ErrorMarked).Render(status)
	b.WriteString(fmt.Sprintf("OraSpectre  Run: %s  %s",
		run.Timestamp.Format("2006-01-02 15:04:05"), statusText))
	b.WriteString("\n")

	// Line 2: check count and report path
	b.WriteString(fmt.Sprintf("Checks: %d  Report: %s",
		run.Summary.TotalChecks, run.ReportPath))
	b.WriteString("\n")

	// Line 3: risk breakdown
	riskParts := make([]string, 0, 4)
	for _, risk := range []models.RiskLevel{models.RiskCritical, models.RiskHigh, models.RiskMedium, models.RiskLow} {
		if count := run.Summary.ByRisk[risk.Class()]; count > 0 {
			label := fmt.Sprintf("%s:%d", strings.ToUpper(risk.Class()[:1]), count)
			riskParts = append(riskParts, riskStyle(risk).Render(label))
		}
	}
	if len(riskParts) > 0 {
		b.WriteString(strings.Join(riskParts, "  "))
	}
	b.WriteString("\n")

	// Line 4: error history sparkline
	if len(errHistory) > 0 {
		b.WriteString("Errors: ")
		b.WriteString(renderSparkline(errHistory))
	}

	return styleHeader.Width(width).Render(b.String())
}

// renderSparkline converts an int slice to a unicode sparkline string.
func renderSparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}

	bars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		if max == min {
			b.WriteRune(bars[len(bars)/2])
		} else {
			normalized := float64(v-min) / float64(max-min)
			idx := int(normalized * float64(len(bars)-1))
			b.WriteRune(bars[idx])
		}
	}

	b.WriteString(fmt.Sprintf(" [%d→%d]", values[0], values[len(values)-1]))
	return b.String()
}
