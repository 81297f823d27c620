package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

type ReconcileInput struct {
	Rows        []entity.RawGuestRow
	Resolutions []entity.ConflictResolution
}

// Reconciler é o motor de reconciliação: recebe um lote extraído e o estado atual do CRM
// (só leitura) e devolve o plano de escritas, a fila de revisão e os contadores.
// Não escreve nada, não tenta de novo e não guarda estado entre execuções.
type Reconciler struct {
	Classifier *Classifier
	Resolver   *IdentityResolver
	Diff       *DiffEngine
}

func NewReconciler(crm CRMReader, rules entity.AgentRules, identityBatchSize, stayBatchSize int) *Reconciler {
	return &Reconciler{
		Classifier: NewClassifier(rules),
		Resolver:   NewIdentityResolver(crm, identityBatchSize),
		Diff:       NewDiffEngine(crm, stayBatchSize),
	}
}

func (r *Reconciler) Reconcile(ctx context.Context, in ReconcileInput) (*entity.SyncPlan, error) {
	plan := &entity.SyncPlan{Summary: entity.NewRunSummary()}
	plan.Summary.Extracted = len(in.Rows)
	review := NewReviewQueueBuilder()

	decide := func(rec entity.SourceGuestRecord, action entity.RecordAction, detail string) {
		plan.Decisions = append(plan.Decisions, entity.RecordDecision{
			SourceID: rec.SourceID,
			Email:    rec.Email,
			Action:   action,
			Detail:   detail,
		})
	}

	// 1. Normalização + classificação
	var eligible []entity.SourceGuestRecord
	for _, row := range in.Rows {
		c := r.Classifier.ClassifyRow(row)
		switch c.Kind {
		case entity.KindInvalid:
			plan.Summary.Invalid++
			plan.Invalid = append(plan.Invalid, invalidRecordFrom(row, c.Reason))
			decide(c.Record, entity.ActionSkipInvalid, c.Reason)
		case entity.KindAgent:
			plan.Summary.FilteredAgent++
			plan.Summary.FilteredBy[c.Category]++
			decide(c.Record, entity.ActionSkipNonGuest, string(c.Category)+": "+c.Reason)
		default:
			plan.Summary.Eligible++
			eligible = append(eligible, c.Record)
		}
	}

	// 2. Emails compartilhados por pessoas diferentes
	groups := GroupByEmail(eligible)
	_, conflicts := DetectConflicts(groups)
	plan.Summary.ConflictEmails = len(conflicts)

	// 3. Identidades no CRM
	emails := make([]string, 0, len(groups))
	for _, g := range groups {
		emails = append(emails, g.Email)
	}
	matches, err := r.Resolver.Resolve(ctx, emails)
	if err != nil {
		return nil, err
	}

	resolutions := make(map[string]*entity.ConflictResolution, len(in.Resolutions))
	for i := range in.Resolutions {
		res := in.Resolutions[i]
		resolutions[strings.ToLower(strings.TrimSpace(res.Email))] = &res
	}

	var proceed []resolvedGuest
	for _, g := range groups {
		m := matches[g.Email]
		members := g.Records

		switch {
		case g.IsConflict():
			released, held, reason := resolveConflictGroup(g, m, resolutions[g.Email])
			review.AddGroup(g, held, reason, crmContextFor(m))
			for _, rec := range held {
				decide(rec, entity.ActionNeedsReview, string(reason))
			}
			members = released

		case m.Status == entity.IdentityAmbiguous:
			review.AddGroup(g, g.Records, entity.ReasonMultipleCRMIdentities, crmContextFor(m))
			for _, rec := range g.Records {
				decide(rec, entity.ActionNeedsReview, string(entity.ReasonMultipleCRMIdentities))
			}
			members = nil
		}

		if len(members) == 0 {
			continue
		}

		if m.Status == entity.IdentityNew {
			plan.CreateIdentities = append(plan.CreateIdentities, identityCreateFrom(members[0]))
			decide(members[0], entity.ActionCreateIdentity, "")
			// Sem check-in o diff não vê o registro: a identidade criada acima já o cobre.
			for _, rec := range members[1:] {
				if rec.CheckIn == nil {
					decide(rec, entity.ActionNoOp, "identity only (created in this run)")
					plan.Summary.NoOp++
				}
			}
		}
		for _, rec := range members {
			proceed = append(proceed, resolvedGuest{IdentityID: m.IdentityID, Record: rec})
		}
	}

	// 4. Diff das estadias
	diff, err := r.Diff.Compute(ctx, proceed)
	if err != nil {
		return nil, err
	}
	for _, o := range diff.Outcomes {
		decide(o.Record, o.Action, o.Detail)
		if o.Action == entity.ActionNoOp {
			plan.Summary.NoOp++
		}
	}

	plan.CreateStays = diff.Creates
	plan.UpdateStays = diff.Updates
	plan.Review = review.Items()

	plan.Summary.IdentitiesCreated = len(plan.CreateIdentities)
	plan.Summary.Created = len(plan.CreateStays)
	plan.Summary.Updated = len(plan.UpdateStays)
	plan.Summary.NeedsReview = len(plan.Review)
	for _, u := range plan.UpdateStays {
		plan.Summary.FlagResetWarnings += len(u.Warnings)
	}

	return plan, nil
}

func invalidRecordFrom(row entity.RawGuestRow, reason string) entity.InvalidRecord {
	field, _, _ := strings.Cut(reason, ":")
	value := row.Email
	switch field {
	case "check_in":
		value = row.CheckIn
	case "check_out":
		value = row.CheckOut
	case "source_id":
		value = row.SourceID
	}
	return entity.InvalidRecord{SourceID: row.SourceID, Field: field, Value: value, Reason: reason}
}
