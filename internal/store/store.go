// Package store persists analysis runs. Two backends are provided: SQLite
// for local single-user work and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/sells-group/insight-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status     model.RunStatus `json:"status,omitempty"`
	DocumentID string          `json:"document_id,omitempty"`
	Limit      int             `json:"limit,omitempty"`
	Offset     int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis runs.
type Store interface {
	CreateRun(ctx context.Context, documentID string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.DocumentAnalysis) error
	FailRun(ctx context.Context, runID string, message string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
