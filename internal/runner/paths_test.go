package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewArtifacts(t *testing.T) {
	now := time.Date(2026, 2, 15, 10, 30, 45, 0, time.UTC)
	a := NewArtifacts("cis_html_reports", ".", now)

	if a.Tag != "20260215_103045" {
		t.Fatalf("expected tag 20260215_103045, got %q", a.Tag)
	}
	if a.Scratch != "temp_check_20260215_103045.sql" {
		t.Errorf("unexpected scratch path %q", a.Scratch)
	}
	if a.Results != "oracle_cis_results_20260215_103045.txt" {
		t.Errorf("unexpected results path %q", a.Results)
	}
	if a.Report != filepath.Join("cis_html_reports", "oracle_cis_report_20260215_103045.html") {
		t.Errorf("unexpected report path %q", a.Report)
	}
}

func TestNewArtifactsSharedTag(t *testing.T) {
	a := NewArtifacts("reports", "work", time.Date(2026, 2, 15, 10, 30, 45, 0, time.UTC))

	for _, path := range []string{a.Scratch, a.Results, a.Report} {
		if !strings.Contains(path, a.Tag) {
			t.Errorf("expected %q to embed run tag %q", path, a.Tag)
		}
	}
}

func TestNewArtifactsSameSecondCollision(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 2, 15, 10, 30, 45, 0, time.UTC)

	first := NewArtifacts(dir, dir, now)
	if err := os.MkdirAll(filepath.Dir(first.Report), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(first.Report, []byte("<html></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	second := NewArtifacts(dir, dir, now)
	if second.Report == first.Report {
		t.Fatal("expected a distinct report path for a same-second rerun")
	}
	if second.Tag != "20260215_103045_2" {
		t.Errorf("expected suffixed tag, got %q", second.Tag)
	}

	// A third run in the same second bumps the suffix again.
	if err := os.WriteFile(second.Report, []byte("<html></html>"), 0644); err != nil {
		t.Fatal(err)
	}
	third := NewArtifacts(dir, dir, now)
	if third.Tag != "20260215_103045_3" {
		t.Errorf("expected tag suffix _3, got %q", third.Tag)
	}
}

func TestNewArtifactsResultsCollision(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 2, 15, 10, 30, 45, 0, time.UTC)

	first := NewArtifacts(dir, dir, now)
	if err := os.WriteFile(first.Results, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	second := NewArtifacts(dir, dir, now)
	if second.Results == first.Results {
		t.Fatal("expected a distinct results path when the first exists")
	}
}
