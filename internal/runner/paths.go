package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout is the compact run tag format shared by all three
// artifact filenames so one run's files correlate by name.
const TimestampLayout = "20060102_150405"

// Artifacts holds the per-run file locations
type Artifacts struct {
	Tag     string // run tag embedded in every filename
	Scratch string // reusable SQL script, deleted after the run
	Results string // plain-text accumulation file
	Report  string // HTML report
}

// NewArtifacts computes artifact paths for a run starting at now. Scratch
// and results files live in workDir, the report under reportDir. The tag
// has second resolution; when a report or results file from the same
// second already exists the tag gains a numeric suffix rather than
// overwriting the earlier run.
func NewArtifacts(reportDir, workDir string, now time.Time) Artifacts {
	base := now.Format(TimestampLayout)
	tag := base
	for n := 2; ; n++ {
		a := artifactsFor(reportDir, workDir, tag)
		if !exists(a.Report) && !exists(a.Results) {
			return a
		}
		tag = fmt.Sprintf("%s_%d", base, n)
	}
}

func artifactsFor(reportDir, workDir, tag string) Artifacts {
	return Artifacts{
		Tag:     tag,
		Scratch: filepath.Join(workDir, "temp_check_"+tag+".sql"),
		Results: filepath.Join(workDir, "oracle_cis_results_"+tag+".txt"),
		Report:  filepath.Join(reportDir, "oracle_cis_report_"+tag+".html"),
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
