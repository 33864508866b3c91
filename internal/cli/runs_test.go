package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/oraspectre/internal/config"
	"github.com/ppiankov/oraspectre/internal/models"
	"github.com/ppiankov/oraspectre/internal/storage"
)

func TestWriteRunsText(t *testing.T) {
	runs := []*models.AuditRun{
		diffRun(time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC),
			checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
		),
		diffRun(time.Date(2026, 2, 15, 10, 30, 45, 0, time.UTC),
			checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "ORA-01017: invalid username/password\n"),
		),
	}

	var buf bytes.Buffer
	if err := writeRunsText(&buf, runs); err != nil {
		t.Fatalf("writeRunsText: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "2026-02-14T09-00-00") {
		t.Error("expected first run timestamp in show-compatible form")
	}
	if !strings.Contains(output, "2026-02-15T10-30-45") {
		t.Error("expected second run timestamp")
	}
	if !strings.Contains(output, "clean") {
		t.Error("expected clean status for run without errors")
	}
	if !strings.Contains(output, "1 error(s)") {
		t.Error("expected error status for error-marked run")
	}
	if !strings.Contains(output, "2 stored run(s)") {
		t.Error("expected run count")
	}
}

func TestRunEntries(t *testing.T) {
	runs := []*models.AuditRun{
		diffRun(time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC),
			checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
			checkRes("2.1", "Password complexity enforced", models.RiskMedium, "ORA-00942: table or view does not exist\n"),
		),
	}

	entries := runEntries(runs)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Timestamp != "2026-02-15T10-00-00" {
		t.Errorf("entry timestamp = %q", entries[0].Timestamp)
	}
	if entries[0].TotalChecks != 2 {
		t.Errorf("entry total = %d, want 2", entries[0].TotalChecks)
	}
	if entries[0].ErrorMarked != 1 {
		t.Errorf("entry errors = %d, want 1", entries[0].ErrorMarked)
	}
}

func TestRunRunsEmptyStorage(t *testing.T) {
	withTestConfig(t, &config.Config{StorageDir: t.TempDir()})

	output := captureStdout(t, func() {
		_ = runRuns(nil, nil)
	})

	if !strings.Contains(output, "No stored runs found") {
		t.Errorf("expected empty-storage message, got %q", output)
	}
}

func TestRunRunsListsStoredRuns(t *testing.T) {
	tmpDir := t.TempDir()
	withTestConfig(t, &config.Config{StorageDir: tmpDir})

	store := storage.NewLocal(tmpDir)
	run := diffRun(time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC),
		checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
	)
	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	output := captureStdout(t, func() {
		_ = runRuns(nil, nil)
	})

	if !strings.Contains(output, "2026-02-15T10-00-00") {
		t.Errorf("expected stored run timestamp, got %q", output)
	}
	if !strings.Contains(output, "1 stored run(s)") {
		t.Errorf("expected run count, got %q", output)
	}
}

func TestRunRunsLastLimit(t *testing.T) {
	tmpDir := t.TempDir()
	withTestConfig(t, &config.Config{StorageDir: tmpDir})

	store := storage.NewLocal(tmpDir)
	for hour := 8; hour <= 10; hour++ {
		run := diffRun(time.Date(2026, 2, 15, hour, 0, 0, 0, time.UTC),
			checkRes("1.1", "Ensure auditing is enabled", models.RiskHigh, "DB\n"),
		)
		if err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	old := runsLast
	runsLast = 2
	t.Cleanup(func() { runsLast = old })

	output := captureStdout(t, func() {
		_ = runRuns(nil, nil)
	})

	if strings.Contains(output, "2026-02-15T08-00-00") {
		t.Error("oldest run should be cut by --last 2")
	}
	if !strings.Contains(output, "2026-02-15T09-00-00") || !strings.Contains(output, "2026-02-15T10-00-00") {
		t.Errorf("expected the two newest runs, got %q", output)
	}
	if !strings.Contains(output, "2 stored run(s)") {
		t.Errorf("expected count of 2, got %q", output)
	}
}
