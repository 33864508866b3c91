package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/oraspectre/internal/checks"
	"github.com/ppiankov/oraspectre/internal/reporter"
)

var checksFormat string

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the CIS check registry",
	Long: `Checks prints every entry in the fixed CIS registry: control id,
description, and risk rating. Use --verbose for queries and remediation
steps, or --format json for the full registry as JSON.

The registry is compiled in. Every audit runs all of it, in order.`,
	RunE: runChecks,
}

func init() {
	checksCmd.Flags().StringVar(&checksFormat, "format", "text",
		"output format: text or json")
}

func runChecks(cmd *cobra.Command, args []string) error {
	switch checksFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(checks.Registry)
	case "text":
		return writeChecksText(os.Stdout, cfg.Verbose)
	default:
		return &ValidationError{
			Message: fmt.Sprintf("unsupported format: %s (use text or json)", checksFormat),
		}
	}
}

func writeChecksText(w io.Writer, detailed bool) error {
	for _, def := range checks.Registry {
		fmt.Fprintf(w, "  %s %-4s %s\n", reporter.RiskBadge(def.Risk), def.ID, def.Description)
		if detailed {
			fmt.Fprintf(w, "         Fix: %s\n", def.FixType)
			fmt.Fprintf(w, "         Query: %s\n", def.Query)
			fmt.Fprintf(w, "         Remediation: %s\n", def.Remediation)
		}
	}

	fmt.Fprintf(w, "\n%d check(s) registered\n", len(checks.Registry))
	return nil
}
