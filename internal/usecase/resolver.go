package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// DefaultIdentityBatchSize acompanha o limite de paginação das consultas do CRM.
const DefaultIdentityBatchSize = 200

type IdentityResolver struct {
	CRM       CRMReader
	BatchSize int
}

func NewIdentityResolver(crm CRMReader, batchSize int) *IdentityResolver {
	if batchSize <= 0 {
		batchSize = DefaultIdentityBatchSize
	}
	return &IdentityResolver{CRM: crm, BatchSize: batchSize}
}

// Resolve classifica cada email como novo, existente (1 identidade) ou ambíguo (2+).
// Nunca escolhe uma identidade quando há mais de uma.
func (r *IdentityResolver) Resolve(ctx context.Context, emails []string) (map[string]entity.IdentityMatch, error) {
	matches := make(map[string]entity.IdentityMatch, len(emails))

	for _, batch := range chunk(emails, r.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := r.CRM.FindIdentitiesByEmail(ctx, batch)
		if err != nil {
			return nil, technical("CRM_IDENTITY_LOOKUP", "falha ao buscar identidades no CRM", err)
		}

		byEmail := make(map[string][]entity.IdentityRecord, len(found))
		for email, ids := range found {
			key := strings.ToLower(strings.TrimSpace(email))
			byEmail[key] = append(byEmail[key], ids...)
		}

		for _, email := range batch {
			matches[email] = classifyIdentity(email, byEmail[email])
		}
	}

	return matches, nil
}

func classifyIdentity(email string, records []entity.IdentityRecord) entity.IdentityMatch {
	seen := make(map[string]bool, len(records))
	var distinct []entity.IdentityRecord
	for _, rec := range records {
		if rec.ID == "" || seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		distinct = append(distinct, rec)
	}

	switch len(distinct) {
	case 0:
		return entity.IdentityMatch{Email: email, Status: entity.IdentityNew}
	case 1:
		id := distinct[0]
		return entity.IdentityMatch{Email: email, Status: entity.IdentityExists, IdentityID: id.ID, Count: 1, Identity: &id}
	default:
		return entity.IdentityMatch{Email: email, Status: entity.IdentityAmbiguous, Count: len(distinct)}
	}
}

// resolveConflictGroup decide o que fazer com um email compartilhado por nomes diferentes.
// Só libera um membro quando existe exatamente um nome autoritativo: o da identidade
// que já está no CRM ou o de uma resolução manual, para identidades novas.
func resolveConflictGroup(g entity.EmailGroup, m entity.IdentityMatch, res *entity.ConflictResolution) (proceed, held []entity.SourceGuestRecord, reason entity.ReviewReason) {
	switch m.Status {
	case entity.IdentityAmbiguous:
		return nil, g.Records, entity.ReasonMultipleCRMIdentities

	case entity.IdentityExists:
		if m.Identity != nil {
			key := NameKey(m.Identity.FirstName, m.Identity.LastName)
			if containsString(g.NameKeys, key) {
				match, rest := membersByNameKey(g, key)
				return match, rest, entity.ReasonSharedEmailNoNameMatch
			}
		}

	case entity.IdentityNew:
		if res != nil {
			key := NameKey(res.FirstName, res.LastName)
			if containsString(g.NameKeys, key) {
				match, rest := membersByNameKey(g, key)
				return match, rest, entity.ReasonSharedEmailNewIdentity
			}
		}
	}

	return nil, g.Records, entity.ReasonSharedEmailConflict
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
