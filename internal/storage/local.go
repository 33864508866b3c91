package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/oraspectre/internal/models"
)

// TimestampLayout is the filename-safe timestamp format used for stored runs
const TimestampLayout = "2006-01-02T15-04-05"

// LocalStorage implements Storage using the local filesystem
type LocalStorage struct {
	baseDir string
}

// NewLocal creates a new local storage instance
func NewLocal(baseDir string) *LocalStorage {
	return &LocalStorage{
		baseDir: baseDir,
	}
}

// SaveRun stores an audit run to disk. The run JSON carries results and
// scanner context only, never connection parameters.
func (s *LocalStorage) SaveRun(run *models.AuditRun) error {
	// Create runs directory
	runsDir := filepath.Join(s.baseDir, "runs")
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	// Generate filename with timestamp
	filename := s.formatTimestamp(run.Timestamp) + "-audit.json"
	path := filepath.Join(runsDir, filename)

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadRun loads the run recorded at a specific timestamp
func (s *LocalStorage) LoadRun(timestamp time.Time) (*models.AuditRun, error) {
	filename := s.formatTimestamp(timestamp) + "-audit.json"
	path := filepath.Join(s.baseDir, "runs", filename)

	return s.loadRunFromFile(path)
}

// GetLatestRun retrieves the most recent run
func (s *LocalStorage) GetLatestRun() (*models.AuditRun, error) {
	timestamps, err := s.ListRuns()
	if err != nil {
		return nil, err
	}

	if len(timestamps) == 0 {
		return nil, fmt.Errorf("no runs found")
	}

	// Get the latest timestamp
	latest := timestamps[len(timestamps)-1]
	return s.LoadRun(latest)
}

// GetLastNRuns retrieves the last N runs
func (s *LocalStorage) GetLastNRuns(n int) ([]*models.AuditRun, error) {
	timestamps, err := s.ListRuns()
	if err != nil {
		return nil, err
	}

	if len(timestamps) == 0 {
		return nil, fmt.Errorf("no runs found")
	}

	// Get the last N timestamps
	start := len(timestamps) - n
	if start < 0 {
		start = 0
	}

	selectedTimestamps := timestamps[start:]
	runs := make([]*models.AuditRun, 0, len(selectedTimestamps))

	for _, timestamp := range selectedTimestamps {
		run, err := s.LoadRun(timestamp)
		if err != nil {
			// Skip runs that fail to load but continue with others
			continue
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// ListRuns returns all available run timestamps sorted chronologically
func (s *LocalStorage) ListRuns() ([]time.Time, error) {
	runsDir := filepath.Join(s.baseDir, "runs")

	// Check if directory exists
	if _, err := os.Stat(runsDir); os.IsNotExist(err) {
		return []time.Time{}, nil
	}

	// Read directory
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var timestamps []time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Only process audit run files
		if !strings.HasSuffix(entry.Name(), "-audit.json") {
			continue
		}

		// Parse timestamp from filename
		// Format: 2006-01-02T15-04-05-audit.json
		timestampStr := strings.TrimSuffix(entry.Name(), "-audit.json")
		timestamp, err := s.parseTimestamp(timestampStr)
		if err != nil {
			// Skip files with invalid timestamp format
			continue
		}

		timestamps = append(timestamps, timestamp)
	}

	// Sort chronologically
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})

	return timestamps, nil
}

// loadRunFromFile loads a run from a file path
func (s *LocalStorage) loadRunFromFile(path string) (*models.AuditRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var run models.AuditRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &run, nil
}

// formatTimestamp converts a time.Time to filename-safe format
func (s *LocalStorage) formatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// parseTimestamp converts filename format back to time.Time
func (s *LocalStorage) parseTimestamp(str string) (time.Time, error) {
	return time.Parse(TimestampLayout, str)
}

// GetStoragePath returns the full path to the storage directory
func (s *LocalStorage) GetStoragePath() string {
	return s.baseDir
}

// EnsureDirectoryExists creates the storage directory if it doesn't exist
func (s *LocalStorage) EnsureDirectoryExists() error {
	return os.MkdirAll(filepath.Join(s.baseDir, "runs"), 0755)
}
