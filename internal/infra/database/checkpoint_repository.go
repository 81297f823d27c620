package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

type CheckpointRepository struct {
	DB *sql.DB
}

func NewCheckpointRepository(db *sql.DB) *CheckpointRepository {
	return &CheckpointRepository{DB: db}
}

func (r *CheckpointRepository) Get(ctx context.Context) (*entity.SyncCheckpoint, error) {
	query := `
		SELECT last_sync_timestamp, last_sync_status, last_sync_record_count
		FROM sync_checkpoint
		WHERE id = 1
	`

	var cp entity.SyncCheckpoint
	var ts sql.NullTime
	err := r.DB.QueryRowContext(ctx, query).Scan(&ts, &cp.LastSyncStatus, &cp.LastSyncRecordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCheckpointNotFound
	}
	if err != nil {
		return nil, wrapPgError("ler checkpoint", err)
	}

	if ts.Valid {
		t := ts.Time.UTC()
		cp.LastSyncTimestamp = &t
	}
	return &cp, nil
}

// Save grava o checkpoint (linha única, id = 1).
func (r *CheckpointRepository) Save(ctx context.Context, cp *entity.SyncCheckpoint) error {
	query := `
		INSERT INTO sync_checkpoint (id, last_sync_timestamp, last_sync_status, last_sync_record_count, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			last_sync_timestamp = EXCLUDED.last_sync_timestamp,
			last_sync_status = EXCLUDED.last_sync_status,
			last_sync_record_count = EXCLUDED.last_sync_record_count,
			updated_at = NOW()
	`

	_, err := r.DB.ExecContext(ctx, query, cp.LastSyncTimestamp, cp.LastSyncStatus, cp.LastSyncRecordCount)
	return wrapPgError("salvar checkpoint", err)
}
