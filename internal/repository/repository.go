package repository

import (
	"context"
	"errors"
	"time"

	"panokit/internal/domain"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run or report does not exist
var ErrNotFound = errors.New("not found")

// Run records one command invocation
type Run struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Host      string    `json:"host,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// NewRun creates a run with a fresh UUID
func NewRun(command, host string, startedAt time.Time) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Command:   command,
		Host:      host,
		StartedAt: startedAt.UTC(),
	}
}

// ReportStore defines the interface for persisting report tables
type ReportStore interface {
	// CreateRun records a run. Saving a run twice is an error.
	CreateRun(ctx context.Context, run *Run) error
	// SaveTable stores table under the run. Saving the same report name
	// again for a run replaces its rows.
	SaveTable(ctx context.Context, runID string, table *domain.Table) error

	ListRuns(ctx context.Context) ([]Run, error)
	LoadTable(ctx context.Context, runID, name string) (*domain.Table, error)

	// Close releases resources
	Close() error
}
