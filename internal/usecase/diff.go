package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// DefaultStayBatchSize é quantas identidades vão por consulta de estadias.
const DefaultStayBatchSize = 200

type stayField struct {
	Field string
	Label string
	Value func(entity.StayRecord) string
}

// Campos comparados na atualização. Nome e contato da identidade ficam de fora:
// aqui só entram os campos da própria estadia.
var comparedStayFields = []stayField{
	{"first_name", "First Name", func(s entity.StayRecord) string { return s.FirstName }},
	{"last_name", "Last Name", func(s entity.StayRecord) string { return s.LastName }},
	{"phone", "Phone", func(s entity.StayRecord) string { return s.Phone }},
	{"language", "Language", func(s entity.StayRecord) string { return s.Language }},
	{"city", "City", func(s entity.StayRecord) string { return s.Address.City }},
	{"state", "State", func(s entity.StayRecord) string { return s.Address.State }},
	{"country", "Country", func(s entity.StayRecord) string { return s.Address.Country }},
	{"check_out", "Check-Out Date", func(s entity.StayRecord) string { return entity.FormatDate(s.CheckOut) }},
}

// DiffStay compara a estadia proposta com a existente campo a campo.
// Valor vazio na proposta nunca apaga o que já está no CRM. Flag que iria de
// true para false entra na mudança, mas com aviso para auditoria.
func DiffStay(existing entity.TargetStayRecord, proposed entity.ProposedStayRecord) ([]entity.FieldChange, []string, error) {
	if existing.Key() != proposed.Key() {
		return nil, nil, fmt.Errorf("%w: diff entre estadias de chaves diferentes (%v x %v)",
			entity.ErrInvariantViolation, existing.Key(), proposed.Key())
	}

	var changes []entity.FieldChange
	var warnings []string

	for _, f := range comparedStayFields {
		from := strings.TrimSpace(f.Value(existing.StayRecord))
		to := strings.TrimSpace(f.Value(proposed.StayRecord))
		if to == "" || from == to {
			continue
		}
		changes = append(changes, entity.FieldChange{Field: f.Field, Label: f.Label, FromValue: from, ToValue: to})
	}

	for _, flag := range proposed.Flags.Sorted() {
		to := proposed.Flags[flag]
		from := existing.Flags[flag]
		if from == to {
			continue
		}
		changes = append(changes, entity.FieldChange{
			Field:         string(flag),
			Label:         flag.Label(),
			FromValue:     strconv.FormatBool(from),
			ToValue:       strconv.FormatBool(to),
			IsBooleanFlag: true,
		})
		if from && !to {
			warnings = append(warnings, fmt.Sprintf("%s would be reset from true to false", flag.Label()))
		}
	}

	return changes, warnings, nil
}

type resolvedGuest struct {
	IdentityID string
	Record     entity.SourceGuestRecord
}

type stayOutcome struct {
	Record entity.SourceGuestRecord
	Action entity.RecordAction
	Detail string
}

type diffResult struct {
	Creates  []entity.ProposedStayRecord
	Updates  []entity.StayUpdate
	Outcomes []stayOutcome
}

type DiffEngine struct {
	CRM       CRMReader
	BatchSize int
}

func NewDiffEngine(crm CRMReader, batchSize int) *DiffEngine {
	if batchSize <= 0 {
		batchSize = DefaultStayBatchSize
	}
	return &DiffEngine{CRM: crm, BatchSize: batchSize}
}

// Compute decide criar, atualizar ou não fazer nada para cada hóspede resolvido.
// Hóspedes sem IdentityID pertencem a identidades que serão criadas nesta execução.
func (d *DiffEngine) Compute(ctx context.Context, guests []resolvedGuest) (*diffResult, error) {
	result := &diffResult{}

	var order []entity.StayKey
	latest := make(map[entity.StayKey]resolvedGuest)
	var identityIDs []string
	seenIdentity := make(map[string]bool)

	for _, g := range guests {
		if g.Record.CheckIn == nil {
			if g.IdentityID == "" {
				// identidade nova: a decisão fica com o Reconcile
				continue
			}
			result.Outcomes = append(result.Outcomes, stayOutcome{Record: g.Record, Action: entity.ActionNoOp, Detail: "no check-in date, identity only"})
			continue
		}

		owner := g.IdentityID
		if owner == "" {
			owner = "new:" + g.Record.Email
		}
		key := entity.StayKey{IdentityID: owner, CheckIn: g.Record.CheckInKey()}

		if prev, dup := latest[key]; dup {
			result.Outcomes = append(result.Outcomes, stayOutcome{
				Record: prev.Record,
				Action: entity.ActionNoOp,
				Detail: "superseded by " + g.Record.SourceID + " (same stay key)",
			})
		} else {
			order = append(order, key)
		}
		latest[key] = g

		if g.IdentityID != "" && !seenIdentity[g.IdentityID] {
			seenIdentity[g.IdentityID] = true
			identityIDs = append(identityIDs, g.IdentityID)
		}
	}

	existing := make(map[entity.StayKey]entity.TargetStayRecord)
	for _, batch := range chunk(identityIDs, d.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stays, err := d.CRM.FindStaysByIdentity(ctx, batch)
		if err != nil {
			return nil, technical("CRM_STAY_LOOKUP", "falha ao buscar estadias no CRM", err)
		}
		for key, stay := range stays {
			if stay.Key() != key {
				return nil, fmt.Errorf("%w: estadia %s devolvida com chave %v mas endereça %v",
					entity.ErrInvariantViolation, stay.ID, key, stay.Key())
			}
			existing[key] = stay
		}
	}

	for _, key := range order {
		g := latest[key]

		target, found := existing[key]
		if g.IdentityID == "" || !found {
			result.Creates = append(result.Creates, BuildProposedStay(g.IdentityID, g.Record, true))
			result.Outcomes = append(result.Outcomes, stayOutcome{Record: g.Record, Action: entity.ActionCreateStay})
			continue
		}

		proposed := BuildProposedStay(g.IdentityID, g.Record, false)
		changes, warnings, err := DiffStay(target, proposed)
		if err != nil {
			return nil, err
		}
		if len(changes) == 0 {
			result.Outcomes = append(result.Outcomes, stayOutcome{Record: g.Record, Action: entity.ActionNoOp, Detail: "already in sync"})
			continue
		}

		result.Updates = append(result.Updates, entity.StayUpdate{
			Existing: target,
			Proposed: proposed,
			Changes:  changes,
			Warnings: warnings,
		})
		result.Outcomes = append(result.Outcomes, stayOutcome{Record: g.Record, Action: entity.ActionUpdateStay, Detail: describeChanges(changes)})
	}

	return result, nil
}

func describeChanges(changes []entity.FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, c.Label)
	}
	return strings.Join(parts, ", ")
}
