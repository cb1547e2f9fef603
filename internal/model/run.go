package model

import "time"

// RunStatus is the lifecycle state of a persisted analysis run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted analysis run.
type Run struct {
	ID         string            `json:"id"`
	DocumentID string            `json:"document_id"`
	Status     RunStatus         `json:"status"`
	Result     *DocumentAnalysis `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
