package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/oraspectre/internal/models"
	"gopkg.in/yaml.v3"
)

// Policy defines enforcement rules for audit results.
type Policy struct {
	Version string `yaml:"version"`
	Rules   Rules  `yaml:"rules"`
}

// Rules contains all configurable policy rules.
type Rules struct {
	MaxErrors     *int     `yaml:"max_errors,omitempty"`
	ForbidOutput  []string `yaml:"forbid_output,omitempty"`
	RequireChecks []string `yaml:"require_checks,omitempty"`
}

// Violation is a single policy failure.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result holds the outcome of a policy check.
type Result struct {
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations"`
}

// LoadFromFile reads a policy file.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	return &p, nil
}

// FindPolicyFile searches for a policy file in the current directory
// and parent directories up to the filesystem root.
func FindPolicyFile() string {
	names := []string{".oraspectre-policy.yaml", ".oraspectre-policy.yml"}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range names {
			path := dir + "/" + name
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := dir[:strings.LastIndex(dir, "/")]
		if parent == dir || parent == "" {
			break
		}
		dir = parent
	}

	return ""
}

// Evaluate checks a completed audit run against the policy rules.
func (p *Policy) Evaluate(run *models.AuditRun) *Result {
	if p == nil {
		return &Result{Pass: true}
	}

	var violations []Violation

	// max_errors
	if p.Rules.MaxErrors != nil {
		if run.Summary.ErrorMarked > *p.Rules.MaxErrors {
			violations = append(violations, Violation{
				Rule:    "max_errors",
				Message: fmt.Sprintf("error-marked checks %d exceeds limit %d", run.Summary.ErrorMarked, *p.Rules.MaxErrors),
			})
		}
	}

	// forbid_output
	if len(p.Rules.ForbidOutput) > 0 {
		for _, needle := range p.Rules.ForbidOutput {
			for _, res := range run.Results {
				if strings.Contains(res.RawOutput, needle) {
					violations = append(violations, Violation{
						Rule:    "forbid_output",
						Message: fmt.Sprintf("check %s output contains forbidden text %q", res.Definition.ID, needle),
					})
				}
			}
		}
	}

	// require_checks
	if len(p.Rules.RequireChecks) > 0 {
		executed := make(map[string]bool, len(run.Results))
		for _, res := range run.Results {
			executed[res.Definition.ID] = true
		}
		for _, id := range p.Rules.RequireChecks {
			if !executed[id] {
				violations = append(violations, Violation{
					Rule:    "require_checks",
					Message: fmt.Sprintf("required check %q not present in run", id),
				})
			}
		}
	}

	return &Result{
		Pass:       len(violations) == 0,
		Violations: violations,
	}
}
