package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/oraspectre/internal/checks"
	"github.com/ppiankov/oraspectre/internal/sqlclient"
	"github.com/ppiankov/oraspectre/internal/sysinfo"
)

var doctorFormat string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your OraSpectre setup end-to-end:

  1. Config file — found and readable?
  2. SQL client  — installed and on PATH?
  3. Registry    — check definitions well-formed?
  4. Report dir  — writable?
  5. Storage     — directory writable?
  6. Host        — context collectable?

Fix the issues it reports, then run 'oraspectre audit' with confidence.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var dchecks []doctorCheck

	// 1. Config file
	dchecks = append(dchecks, checkConfig())

	// 2. SQL client binary
	dchecks = append(dchecks, checkClient())

	// 3. Check registry
	dchecks = append(dchecks, checkRegistry())

	// 4. Report directory
	dchecks = append(dchecks, checkDir("report dir", cfg.ReportDir))

	// 5. Storage directory
	dchecks = append(dchecks, checkDir("storage", cfg.StorageDir))

	// 6. Host context
	dchecks = append(dchecks, checkHost())

	// Build summary
	fails, warns := 0, 0
	for _, c := range dchecks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}

	summary := "all checks passed"
	if fails > 0 {
		summary = fmt.Sprintf("%d issue(s) found", fails)
	} else if warns > 0 {
		summary = fmt.Sprintf("ok with %d warning(s)", warns)
	}

	result := doctorResult{Checks: dchecks, Summary: summary}

	if doctorFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return writeDoctorText(result)
}

func writeDoctorText(result doctorResult) error {
	icons := map[string]string{
		"ok":   "✓",
		"warn": "△",
		"fail": "✗",
	}

	for _, c := range result.Checks {
		icon := icons[c.Status]
		if c.Detail != "" {
			fmt.Printf("  %s %-12s %s\n", icon, c.Name, c.Detail)
		} else {
			fmt.Printf("  %s %s\n", icon, c.Name)
		}
	}

	fmt.Printf("\n%s\n", result.Summary)
	return nil
}

// configCandidates lists the paths config discovery searches, in order
func configCandidates() []string {
	candidates := []string{"oraspectre.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "oraspectre.yaml"))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "oraspectre", "oraspectre.yaml"))
	}

	return candidates
}

func checkConfig() doctorCheck {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return doctorCheck{
				Name:   "config",
				Status: "fail",
				Detail: fmt.Sprintf("%s not readable: %v", configFile, err),
			}
		}
		return doctorCheck{
			Name:   "config",
			Status: "ok",
			Detail: configFile,
		}
	}

	for _, path := range configCandidates() {
		if _, err := os.Stat(path); err == nil {
			return doctorCheck{
				Name:   "config",
				Status: "ok",
				Detail: path,
			}
		}
	}

	return doctorCheck{
		Name:   "config",
		Status: "warn",
		Detail: "no config file found (using defaults)",
	}
}

func checkClient() doctorCheck {
	path, err := sqlclient.Locate(cfg.Client)
	if err != nil {
		return doctorCheck{
			Name:   "client",
			Status: "fail",
			Detail: fmt.Sprintf("%s not found in PATH. Install an Oracle client or set client: in config", cfg.Client),
		}
	}

	return doctorCheck{
		Name:   "client",
		Status: "ok",
		Detail: path,
	}
}

func checkRegistry() doctorCheck {
	if err := checks.ValidateRegistry(checks.Registry); err != nil {
		return doctorCheck{
			Name:   "registry",
			Status: "fail",
			Detail: err.Error(),
		}
	}

	return doctorCheck{
		Name:   "registry",
		Status: "ok",
		Detail: fmt.Sprintf("%d check(s)", len(checks.Registry)),
	}
}

// checkDir verifies a directory either exists writable or can be created
func checkDir(name, path string) doctorCheck {
	info, err := os.Stat(path)
	if err != nil {
		// Directory doesn't exist yet — that's fine, it will be created
		return doctorCheck{
			Name:   name,
			Status: "ok",
			Detail: fmt.Sprintf("%s (will be created on first audit)", path),
		}
	}

	if !info.IsDir() {
		return doctorCheck{
			Name:   name,
			Status: "fail",
			Detail: fmt.Sprintf("%s exists but is not a directory", path),
		}
	}

	// Try writing a temp file to check write access
	tmpFile := filepath.Join(path, ".doctor-check")
	if err := os.WriteFile(tmpFile, []byte("ok"), 0600); err != nil {
		return doctorCheck{
			Name:   name,
			Status: "fail",
			Detail: fmt.Sprintf("%s not writable: %v", path, err),
		}
	}
	_ = os.Remove(tmpFile)

	return doctorCheck{
		Name:   name,
		Status: "ok",
		Detail: path,
	}
}

func checkHost() doctorCheck {
	host := sysinfo.Collect()
	if host.Hostname == "" {
		return doctorCheck{
			Name:   "host",
			Status: "warn",
			Detail: "hostname unavailable",
		}
	}

	detail := host.Hostname
	if host.Platform != "" {
		detail = fmt.Sprintf("%s (%s %s)", host.Hostname, host.Platform, host.PlatformVersion)
	}

	return doctorCheck{
		Name:   "host",
		Status: "ok",
		Detail: detail,
	}
}
