package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// ReviewRepository guarda a fila de revisão aberta e as decisões manuais de conflito.
type ReviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// ReplaceOpen troca os itens abertos dos emails do escopo pelos da execução atual.
// Extração incremental só enxerga parte dos hóspedes: os demais itens abertos ficam.
func (r *ReviewRepository) ReplaceOpen(ctx context.Context, runID string, scope entity.ReviewScope, items []entity.ReviewItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapPgError("abrir transação da fila", err)
	}
	defer tx.Rollback()

	del := psql.Delete("review_items").Where("resolved_at IS NULL")
	if !scope.All {
		emails := make([]string, 0, len(scope.Emails)+len(items))
		emails = append(emails, scope.Emails...)
		for _, it := range items {
			emails = append(emails, it.Email)
		}
		del = del.Where("email = ANY(?)", pq.Array(emails))
	}
	query, args, err := del.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return wrapPgError("limpar fila aberta", err)
	}

	if len(items) > 0 {
		emails := make([]string, len(items))
		reasons := make([]string, len(items))
		fields := make([]string, len(items))
		details := make([]string, len(items))
		for i, it := range items {
			b, err := json.Marshal(it.ProposedFields)
			if err != nil {
				return err
			}
			emails[i] = it.Email
			reasons[i] = string(it.Reason)
			fields[i] = string(b)
			details[i] = it.Details
		}

		query := `
			INSERT INTO review_items (run_id, email, reason, fields, details)
			SELECT $1, u.email, u.reason, u.fields::jsonb, u.details
			FROM unnest($2::text[], $3::text[], $4::text[], $5::text[]) AS u(email, reason, fields, details)
		`
		_, err := tx.ExecContext(ctx, query, runID,
			pq.Array(emails), pq.Array(reasons), pq.Array(fields), pq.Array(details))
		if err != nil {
			return wrapPgError("inserir fila de revisão", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapPgError("confirmar fila de revisão", err)
	}
	return nil
}

func (r *ReviewRepository) ListOpen(ctx context.Context) ([]entity.ReviewItem, error) {
	query := `
		SELECT email, reason, fields, details
		FROM review_items
		WHERE resolved_at IS NULL
		ORDER BY email, reason, id
	`

	rs, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapPgError("listar fila de revisão", err)
	}
	defer rs.Close()

	items := []entity.ReviewItem{}
	for rs.Next() {
		var it entity.ReviewItem
		var reason string
		var fields []byte
		if err := rs.Scan(&it.Email, &reason, &fields, &it.Details); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fields, &it.ProposedFields); err != nil {
			return nil, fmt.Errorf("campos inválidos na revisão de %s: %w", it.Email, err)
		}
		it.Reason = entity.ReviewReason(reason)
		items = append(items, it)
	}
	return items, rs.Err()
}

func (r *ReviewRepository) PendingEmails(ctx context.Context, since time.Time) ([]string, error) {
	rs, err := r.DB.QueryContext(ctx, `SELECT email FROM conflict_resolutions WHERE resolved_at > $1 ORDER BY email`, since)
	if err != nil {
		return nil, wrapPgError("listar emails pendentes", err)
	}
	defer rs.Close()

	var emails []string
	for rs.Next() {
		var email string
		if err := rs.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rs.Err()
}

func (r *ReviewRepository) ListResolutions(ctx context.Context) ([]entity.ConflictResolution, error) {
	rs, err := r.DB.QueryContext(ctx, `SELECT email, first_name, last_name FROM conflict_resolutions ORDER BY email`)
	if err != nil {
		return nil, wrapPgError("listar resoluções", err)
	}
	defer rs.Close()

	var out []entity.ConflictResolution
	for rs.Next() {
		var res entity.ConflictResolution
		if err := rs.Scan(&res.Email, &res.FirstName, &res.LastName); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rs.Err()
}

// Resolve registra quem é o dono de um email compartilhado. Vale a partir da próxima execução.
func (r *ReviewRepository) Resolve(ctx context.Context, res entity.ConflictResolution) error {
	email := entity.NormalizeEmail(res.Email)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapPgError("abrir transação de resolução", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conflict_resolutions (email, first_name, last_name, resolved_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email)
		DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, resolved_at = NOW()
	`, email, res.FirstName, res.LastName)
	if err != nil {
		return wrapPgError("gravar resolução", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE review_items SET resolved_at = NOW()
		WHERE email = $1 AND resolved_at IS NULL
	`, email)
	if err != nil {
		return wrapPgError("fechar itens resolvidos", err)
	}

	return wrapPgError("confirmar resolução", tx.Commit())
}
