package storage

import (
	"time"

	"github.com/ppiankov/oraspectre/internal/models"
)

// Storage defines the interface for persisting audit runs
type Storage interface {
	// SaveRun stores a completed audit run
	SaveRun(run *models.AuditRun) error

	// LoadRun loads the run recorded at a specific timestamp
	LoadRun(timestamp time.Time) (*models.AuditRun, error)

	// GetLatestRun retrieves the most recent run
	GetLatestRun() (*models.AuditRun, error)

	// GetLastNRuns retrieves the last N runs
	GetLastNRuns(n int) ([]*models.AuditRun, error)

	// ListRuns returns all available run timestamps
	ListRuns() ([]time.Time, error)
}
