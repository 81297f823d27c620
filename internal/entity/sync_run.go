package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SyncRun struct {
	ID         string      `json:"id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Status     string      `json:"status"`
	DryRun     bool        `json:"dry_run"`
	Summary    *RunSummary `json:"summary,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func NewSyncRun(dryRun bool) *SyncRun {
	return &SyncRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    SyncStatusRunning,
		DryRun:    dryRun,
	}
}

type SyncRunRepositoryInterface interface {
	Start(ctx context.Context, run *SyncRun) error
	Finish(ctx context.Context, run *SyncRun) error
}
