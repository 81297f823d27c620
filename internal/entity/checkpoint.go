package entity

import (
	"context"
	"time"
)

const (
	SyncStatusSuccess = "SUCCESS"
	SyncStatusFailed  = "FAILED"
	SyncStatusRunning = "RUNNING"
)

// SyncCheckpoint é a marca d'água da última execução bem-sucedida.
// LastSyncTimestamp nil significa "nunca sincronizou": extração completa.
type SyncCheckpoint struct {
	LastSyncTimestamp   *time.Time `json:"lastSyncTimestamp"`
	LastSyncStatus      string     `json:"lastSyncStatus"`
	LastSyncRecordCount int        `json:"lastSyncRecordCount"`
}

type CheckpointRepositoryInterface interface {
	Get(ctx context.Context) (*SyncCheckpoint, error)
	Save(ctx context.Context, cp *SyncCheckpoint) error
}
