package reporter

import (
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/oraspectre/internal/models"
)

// htmlData is the template input for one rendered report
type htmlData struct {
	Date    string
	Results []models.CheckResult
}

// WriteHTML renders the audit report to path, creating the report
// directory if needed. One table row per check, in execution order,
// with the row class derived from the lowercased risk level.
func WriteHTML(path string, run *models.AuditRun) error {

	tpl := `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Oracle CIS Audit Report</title>
    <style>
        body { font-family: Arial; padding: 20px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { padding: 10px; border: 1px solid #ccc; vertical-align: top; }
        th { background-color: #f0f0f0; }
        .critical { background-color: #f1aeb5; }
        .high { background-color: #f8d7da; }
        .medium { background-color: #fff3cd; }
        .low { background-color: #d4edda; }
        pre { white-space: pre-wrap; background: #f4f4f4; padding: 8px; }
    </style>
</head>
<body>
    <h1>Oracle Database CIS Audit Report</h1>
    <p><strong>Date:</strong> {{.Date}}</p>
    <table>
        <thead>
            <tr>
                <th>Finding ID</th>
                <th>Description</th>
                <th>Risk Rating</th>
                <th>Fix Type</th>
                <th>Remediation Steps</th>
                <th>Result Output</th>
            </tr>
        </thead>
        <tbody>
        {{range .Results}}
            <tr class="{{.Definition.Risk.Class}}">
                <td>{{.Definition.ID}}</td>
                <td>{{.Definition.Description}}</td>
                <td>{{.Definition.Risk}}</td>
                <td>{{.Definition.FixType}}</td>
                <td>{{.Definition.Remediation}}</td>
                <td><pre>{{.RawOutput}}</pre></td>
            </tr>
        {{end}}
        </tbody>
    </table>
</body>
</html>
`

	t, err := template.New("report").Parse(tpl)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return t.Execute(f, htmlData{
		Date:    formatTimestamp(run.Timestamp),
		Results: run.Results,
	})
}

// formatTimestamp formats a timestamp for display
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
