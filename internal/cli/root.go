package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/oraspectre/internal/config"
	"github.com/spf13/cobra"
)

const (
	// Exit codes
	ExitOK           = 0 // Audit completed
	ExitAuditFail    = 1 // Connection probe or policy gate failed
	ExitInvalidInput = 2 // Invalid configuration or arguments
	ExitRuntimeError = 3 // I/O, permissions, or runtime error
)

var (
	// Global config instance
	cfg *config.Config

	// Global flags
	configFile string
	verbose    bool
	debug      bool
)

// rootCmd represents the base command. Invoked without a subcommand it
// runs the interactive audit, matching the original single-purpose surface.
var rootCmd = &cobra.Command{
	Use:   "oraspectre",
	Short: "OraSpectre - Interactive Oracle CIS audit",
	Long: `OraSpectre runs a fixed registry of CIS checks against an Oracle
database through an external SQL client and renders a severity-styled
HTML report.

Connection parameters are collected interactively at the prompt and
never stored. Each run also writes a plain-text results file and a
storable run record for history, diffing, and the TUI browser.

Quick start:
  oraspectre            (or: oraspectre audit)
  oraspectre doctor
  oraspectre runs
  oraspectre show --latest

Other commands:
  oraspectre checks
  oraspectre diff
  oraspectre version`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags if provided
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}

		return nil
	},
	RunE: runAudit,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		os.Exit(HandleError(err))
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./oraspectre.yaml or ~/oraspectre.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	// Add subcommands
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(checksCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(versionCmd)
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	switch err.(type) {
	case *ValidationError:
		return ExitInvalidInput
	case *AuditFailError:
		return ExitAuditFail
	default:
		return ExitRuntimeError
	}
}

// ValidationError represents invalid input or configuration
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuditFailError represents a failed audit: the connection probe did not
// succeed, the policy gate found violations, or diff --fail-new tripped
type AuditFailError struct {
	Message string
}

func (e *AuditFailError) Error() string {
	return e.Message
}

// logVerbose prints a message if verbose mode is enabled
func logVerbose(format string, args ...interface{}) {
	if cfg != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

// logDebug prints a message if debug mode is enabled
func logDebug(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// logError prints an error message
func logError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
