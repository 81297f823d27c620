package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// DefaultExtractBatchSize é quantos hóspedes vão por ida ao PMS.
const DefaultExtractBatchSize = 50

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// GuestExtractor lê hóspedes e reservas do banco do PMS. Cada reserva vira uma linha;
// hóspede sem reserva vira uma linha sem datas (só identidade).
type GuestExtractor struct {
	DB        *sql.DB
	BatchSize int
}

func NewGuestExtractor(db *sql.DB, batchSize int) *GuestExtractor {
	if batchSize <= 0 {
		batchSize = DefaultExtractBatchSize
	}
	return &GuestExtractor{DB: db, BatchSize: batchSize}
}

// Extract devolve as linhas de hóspedes alterados desde `since` (nil = tudo).
// Na extração incremental entram também os hóspedes dos emails em `emails` e todos os que
// dividem email com um hóspede alterado: conflito e resolução manual são decididos por email.
func (e *GuestExtractor) Extract(ctx context.Context, since *time.Time, emails []string) ([]entity.RawGuestRow, error) {
	ids, err := e.changedGuestIDs(ctx, since, emails)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []entity.RawGuestRow
	for start := 0; start < len(ids); start += e.BatchSize {
		end := start + e.BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := e.fetchBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}

	log.Printf("📦 PMS: %d hóspedes alterados, %d linhas extraídas", len(ids), len(rows))
	return rows, nil
}

func (e *GuestExtractor) changedGuestIDs(ctx context.Context, since *time.Time, emails []string) ([]int64, error) {
	query, args, err := changedGuestsQuery(since, emails)
	if err != nil {
		return nil, err
	}

	rs, err := e.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPgError("buscar hóspedes alterados", err)
	}
	defer rs.Close()

	var ids []int64
	for rs.Next() {
		var id int64
		if err := rs.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rs.Err()
}

// changedGuestsQuery monta a seleção de ids. O CTE `changed` usa placeholders `?`;
// a troca para $N acontece uma vez só, no SQL final.
func changedGuestsQuery(since *time.Time, emails []string) (string, []interface{}, error) {
	q := psql.Select("DISTINCT g.id").From("guests g").OrderBy("g.id")
	if since == nil {
		return q.ToSql()
	}

	seed, seedArgs, err := squirrel.Select("g.id", "lower(trim(g.email)) AS email").
		From("guests g").
		LeftJoin("reservations r ON r.guest_id = g.id").
		Where(squirrel.Or{
			squirrel.Gt{"g.updated_at": *since},
			squirrel.Gt{"r.updated_at": *since},
			squirrel.Expr("lower(trim(g.email)) = ANY(?::text[])", pq.Array(emails)),
		}).
		ToSql()
	if err != nil {
		return "", nil, err
	}

	return q.Prefix("WITH changed AS ("+seed+")", seedArgs...).
		Where(squirrel.Or{
			squirrel.Expr("g.id IN (SELECT id FROM changed)"),
			squirrel.Expr("lower(trim(g.email)) IN (SELECT email FROM changed WHERE email <> '')"),
		}).
		ToSql()
}

func (e *GuestExtractor) fetchBatch(ctx context.Context, ids []int64) ([]entity.RawGuestRow, error) {
	query, args, err := psql.Select(
		"COALESCE(r.id::text, 'guest-' || g.id::text)",
		"COALESCE(g.first_name, '')",
		"COALESCE(g.last_name, '')",
		"COALESCE(g.email, '')",
		"COALESCE(g.phone, '')",
		"COALESCE(g.language, '')",
		"COALESCE(g.billing_city, '')",
		"COALESCE(g.billing_state, '')",
		"COALESCE(g.billing_country, '')",
		"COALESCE(to_char(r.check_in, 'YYYY-MM-DD'), '')",
		"COALESCE(to_char(r.check_out, 'YYYY-MM-DD'), '')",
		"r.welcome_call",
		"r.pre_arrival_email",
		"r.review_requested",
		"r.marketing_opt_in",
		"GREATEST(g.updated_at, COALESCE(r.updated_at, g.updated_at))",
	).
		From("guests g").
		LeftJoin("reservations r ON r.guest_id = g.id AND r.status <> 'cancelled'").
		Where("g.id = ANY(?)", pq.Array(ids)).
		OrderBy("g.id", "r.check_in").
		ToSql()
	if err != nil {
		return nil, err
	}

	rs, err := e.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPgError("extrair lote de hóspedes", err)
	}
	defer rs.Close()

	var out []entity.RawGuestRow
	for rs.Next() {
		var row entity.RawGuestRow
		var welcome, preArrival, review, optIn sql.NullBool
		if err := rs.Scan(
			&row.SourceID,
			&row.FirstName,
			&row.LastName,
			&row.Email,
			&row.Phone,
			&row.Language,
			&row.BillingCity,
			&row.BillingState,
			&row.BillingCountry,
			&row.CheckIn,
			&row.CheckOut,
			&welcome,
			&preArrival,
			&review,
			&optIn,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao ler linha do PMS: %w", err)
		}
		row.Flags = flagsFrom(map[entity.EngagementFlag]sql.NullBool{
			entity.FlagWelcomeCall:     welcome,
			entity.FlagPreArrivalEmail: preArrival,
			entity.FlagReviewRequested: review,
			entity.FlagMarketingOptIn:  optIn,
		})
		out = append(out, row)
	}
	return out, rs.Err()
}

// flagsFrom mantém só as flags que o PMS realmente informou (NULL = não informado).
func flagsFrom(values map[entity.EngagementFlag]sql.NullBool) map[string]bool {
	flags := make(map[string]bool)
	for flag, v := range values {
		if v.Valid {
			flags[string(flag)] = v.Bool
		}
	}
	if len(flags) == 0 {
		return nil
	}
	return flags
}
