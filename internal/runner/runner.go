// Package runner executes registry checks sequentially through the SQL client.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/oraspectre/internal/models"
	"github.com/ppiankov/oraspectre/internal/sqlclient"
)

// separatorLine divides per-check sections in the accumulation file
const separatorLine = "----------------------------------------"

// Runner executes checks in order against a single connection. One scratch
// script file is reused for every check and removed when the loop finishes.
type Runner struct {
	client  *sqlclient.Client
	scratch string
	results string

	// Progress, when set, is called before each check executes
	Progress func(index, total int, def models.CheckDefinition)
}

// New creates a runner using the given scratch script path and plain-text
// results path.
func New(client *sqlclient.Client, scratchPath, resultsPath string) *Runner {
	return &Runner{
		client:  client,
		scratch: scratchPath,
		results: resultsPath,
	}
}

// Run executes every definition in order and returns one result per check.
// Individual check failures are absorbed into their raw output and never
// stop the loop. The accumulation file receives a section per check as a
// side effect, independent of the HTML report.
func (r *Runner) Run(ctx context.Context, params models.ConnectionParams, defs []models.CheckDefinition) ([]models.CheckResult, error) {
	f, err := os.Create(r.results)
	if err != nil {
		return nil, fmt.Errorf("failed to create results file: %w", err)
	}
	defer func() { _ = f.Close() }()
	defer func() { _ = os.Remove(r.scratch) }()

	results := make([]models.CheckResult, 0, len(defs))

	for i, def := range defs {
		if r.Progress != nil {
			r.Progress(i, len(defs), def)
		}

		raw := r.runOne(ctx, params, def)

		if err := appendResult(f, def, raw); err != nil {
			return nil, fmt.Errorf("failed to record result for %s: %w", def.ID, err)
		}

		results = append(results, models.CheckResult{Definition: def, RawOutput: raw})
	}

	return results, nil
}

// runOne overwrites the scratch script with the check's query and captures
// whatever the client prints. When the invocation fails without producing
// any output, the error text stands in for the output.
func (r *Runner) runOne(ctx context.Context, params models.ConnectionParams, def models.CheckDefinition) string {
	if err := sqlclient.WriteScript(r.scratch, def.Query); err != nil {
		return "Error: " + err.Error()
	}

	out, err := r.client.RunScript(ctx, params, r.scratch)
	if out == "" && err != nil {
		return "Error: " + err.Error()
	}
	return out
}

// appendResult writes one check section: the [id] description line, the raw
// output as captured, and a separator line.
func appendResult(w io.Writer, def models.CheckDefinition, raw string) error {
	if _, err := fmt.Fprintf(w, "[%s] %s\n", def.ID, def.Description); err != nil {
		return err
	}
	if _, err := io.WriteString(w, raw); err != nil {
		return err
	}
	if !strings.HasSuffix(raw, "\n") {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, separatorLine)
	return err
}
