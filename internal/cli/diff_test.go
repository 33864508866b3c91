package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/oraspectre/internal/models"
)

func diffRun(ts time.Time, results ...models.CheckResult) *models.AuditRun {
	return &models.AuditRun{
		Timestamp: ts,
		Results:   results,
		Summary:   models.Summarize(results),
	}
}

func checkRes(id, desc string, risk models.RiskLevel, output string) models.CheckResult {
	return models.CheckResult{
		Definition: models.CheckDefinition{ID: id, Description: desc, Risk: risk},
		RawOutput:  output,
	}
}

func TestComputeDiffNewErrors(t *testing.T) {
	baseline := diffRun(time.Now().Add(-1*time.Hour),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
		checkRes("3.1", "DBA role misuse", models.RiskHigh, "SYS\n"),
	)
	current := diffRun(time.Now(),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
		checkRes("3.1", "DBA role misuse", models.RiskHigh, "ORA-00942: table or view does not exist\n"),
	)

	result := computeDiff(baseline, current)

	if result.Summary.NewCount != 1 {
		t.Errorf("expected 1 new error, got %d", result.Summary.NewCount)
	}
	if result.Summary.ResolvedCount != 0 {
		t.Errorf("expected 0 resolved, got %d", result.Summary.ResolvedCount)
	}
	if result.Summary.Delta != 1 {
		t.Errorf("expected delta +1, got %d", result.Summary.Delta)
	}
	if result.NewErrors[0].ID != "3.1" {
		t.Errorf("expected new error on 3.1, got %s", result.NewErrors[0].ID)
	}
	// A clean-to-error flip is a new error, not a changed output
	if result.Summary.ChangedCount != 0 {
		t.Errorf("expected 0 changed, got %d", result.Summary.ChangedCount)
	}
}

func TestComputeDiffResolvedErrors(t *testing.T) {
	baseline := diffRun(time.Now().Add(-1*time.Hour),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "ORA-01017: invalid username/password\n"),
		checkRes("5.1", "Default user accounts", models.RiskLow, "no rows selected\n"),
	)
	current := diffRun(time.Now(),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
		checkRes("5.1", "Default user accounts", models.RiskLow, "no rows selected\n"),
	)

	result := computeDiff(baseline, current)

	if result.Summary.NewCount != 0 {
		t.Errorf("expected 0 new errors, got %d", result.Summary.NewCount)
	}
	if result.Summary.ResolvedCount != 1 {
		t.Errorf("expected 1 resolved, got %d", result.Summary.ResolvedCount)
	}
	if result.Summary.Delta != -1 {
		t.Errorf("expected delta -1, got %d", result.Summary.Delta)
	}
	if result.ResolvedErrors[0].ID != "1.1" {
		t.Errorf("expected resolved error on 1.1, got %s", result.ResolvedErrors[0].ID)
	}
}

func TestComputeDiffNoChange(t *testing.T) {
	results := []models.CheckResult{
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
		checkRes("2.1", "Password complexity enforced", models.RiskMedium, "ORA-00942: table or view does not exist\n"),
	}
	baseline := diffRun(time.Now().Add(-1*time.Hour), results...)
	current := diffRun(time.Now(), results...)

	result := computeDiff(baseline, current)

	if result.Summary.NewCount != 0 {
		t.Errorf("expected 0 new, got %d", result.Summary.NewCount)
	}
	if result.Summary.ResolvedCount != 0 {
		t.Errorf("expected 0 resolved, got %d", result.Summary.ResolvedCount)
	}
	if result.Summary.ChangedCount != 0 {
		t.Errorf("expected 0 changed, got %d", result.Summary.ChangedCount)
	}
	if result.Summary.Delta != 0 {
		t.Errorf("expected delta 0, got %d", result.Summary.Delta)
	}
}

func TestComputeDiffChangedOutput(t *testing.T) {
	baseline := diffRun(time.Now().Add(-1*time.Hour),
		checkRes("5.1", "Default user accounts", models.RiskLow, "SCOTT OPEN\n"),
	)
	current := diffRun(time.Now(),
		checkRes("5.1", "Default user accounts", models.RiskLow, "SCOTT LOCKED\n"),
	)

	result := computeDiff(baseline, current)

	if result.Summary.ChangedCount != 1 {
		t.Fatalf("expected 1 changed, got %d", result.Summary.ChangedCount)
	}
	if result.ChangedOutput[0].ID != "5.1" {
		t.Errorf("expected changed output on 5.1, got %s", result.ChangedOutput[0].ID)
	}
	if result.Summary.NewCount != 0 || result.Summary.ResolvedCount != 0 {
		t.Errorf("expected no error flips, got new=%d resolved=%d",
			result.Summary.NewCount, result.Summary.ResolvedCount)
	}
}

func TestComputeDiffVanishedErrorResolves(t *testing.T) {
	baseline := diffRun(time.Now().Add(-1*time.Hour),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
		checkRes("9.9", "Retired check", models.RiskLow, "SP2-0042: unknown command\n"),
	)
	current := diffRun(time.Now(),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
	)

	result := computeDiff(baseline, current)

	if result.Summary.ResolvedCount != 1 {
		t.Fatalf("expected vanished error to resolve, got %d", result.Summary.ResolvedCount)
	}
	if result.ResolvedErrors[0].ID != "9.9" {
		t.Errorf("expected resolution on 9.9, got %s", result.ResolvedErrors[0].ID)
	}
}

func TestComputeDiffEmptyRuns(t *testing.T) {
	baseline := diffRun(time.Now().Add(-1 * time.Hour))
	current := diffRun(time.Now())

	result := computeDiff(baseline, current)

	if result.Summary.NewCount != 0 {
		t.Errorf("expected 0 new, got %d", result.Summary.NewCount)
	}
	if result.Summary.ResolvedCount != 0 {
		t.Errorf("expected 0 resolved, got %d", result.Summary.ResolvedCount)
	}
	if result.Summary.Delta != 0 {
		t.Errorf("expected delta 0, got %d", result.Summary.Delta)
	}
}

func TestLoadRunFromFile(t *testing.T) {
	run := diffRun(time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
	)

	data, err := json.Marshal(run)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "baseline.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := loadRunFromFile(path)
	if err != nil {
		t.Fatalf("loadRunFromFile: %v", err)
	}
	if len(loaded.Results) != 1 || loaded.Results[0].Definition.ID != "1.1" {
		t.Errorf("unexpected loaded run: %+v", loaded.Results)
	}
	if loaded.Summary.TotalChecks != 1 {
		t.Errorf("expected summary to survive round trip, got %d checks", loaded.Summary.TotalChecks)
	}
}

func TestLoadRunFromFileMissing(t *testing.T) {
	if _, err := loadRunFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestComputeDiffTimestampFormat(t *testing.T) {
	baseline := diffRun(time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC))
	current := diffRun(time.Date(2026, 2, 15, 10, 30, 45, 0, time.UTC))

	result := computeDiff(baseline, current)

	if result.Baseline != "2026-02-14 09:00:00" {
		t.Errorf("baseline timestamp = %q", result.Baseline)
	}
	if result.Current != "2026-02-15 10:30:45" {
		t.Errorf("current timestamp = %q", result.Current)
	}
}
