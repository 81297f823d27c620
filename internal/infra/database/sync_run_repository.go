package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

type SyncRunRepository struct {
	DB *sql.DB
}

func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{DB: db}
}

func (r *SyncRunRepository) Start(ctx context.Context, run *entity.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, started_at, status, dry_run)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, run.ID, run.StartedAt, run.Status, run.DryRun)
	return wrapPgError("abrir execução", err)
}

func (r *SyncRunRepository) Finish(ctx context.Context, run *entity.SyncRun) error {
	var summary []byte
	if run.Summary != nil {
		b, err := json.Marshal(run.Summary)
		if err != nil {
			return err
		}
		summary = b
	}

	query := `
		UPDATE sync_runs
		SET finished_at = $2, status = $3, summary = $4, error = $5
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, run.ID, run.FinishedAt, run.Status, summary, nullString(run.Error))
	return wrapPgError("encerrar execução", err)
}

// ListRecent devolve as últimas execuções, mais recentes primeiro.
func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]entity.SyncRun, error) {
	query, args, err := psql.Select("id", "started_at", "finished_at", "status", "dry_run", "summary", "COALESCE(error, '')").
		From("sync_runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rs, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPgError("listar execuções", err)
	}
	defer rs.Close()

	var runs []entity.SyncRun
	for rs.Next() {
		var run entity.SyncRun
		var finished sql.NullTime
		var summary []byte
		if err := rs.Scan(&run.ID, &run.StartedAt, &finished, &run.Status, &run.DryRun, &summary, &run.Error); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time.UTC()
			run.FinishedAt = &t
		}
		if len(summary) > 0 {
			var s entity.RunSummary
			if err := json.Unmarshal(summary, &s); err != nil {
				return nil, err
			}
			run.Summary = &s
		}
		runs = append(runs, run)
	}
	return runs, rs.Err()
}
