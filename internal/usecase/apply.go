package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

type ApplyResult struct {
	IdentitiesCreated int `json:"identities_created"`
	StaysCreated      int `json:"stays_created"`
	StaysUpdated      int `json:"stays_updated"`
}

// applyPlan escreve no CRM na ordem: identidades, estadias novas, atualizações.
// A primeira falha aborta; a próxima execução refaz tudo e o diff evita duplicar.
func applyPlan(ctx context.Context, w CRMWriter, plan *entity.SyncPlan) (ApplyResult, error) {
	var res ApplyResult
	identityByEmail := make(map[string]string, len(plan.CreateIdentities))

	for _, ic := range plan.CreateIdentities {
		id, err := w.CreateIdentity(ctx, ic)
		if err != nil {
			return res, technical("CRM_CREATE_IDENTITY", "falha ao criar identidade "+ic.Email, err)
		}
		identityByEmail[ic.Email] = id
		res.IdentitiesCreated++
	}

	for _, stay := range plan.CreateStays {
		if stay.IdentityID == "" {
			id, ok := identityByEmail[stay.Email]
			if !ok {
				return res, fmt.Errorf("%w: estadia %s sem identidade para %s", entity.ErrInvariantViolation, stay.SourceID, stay.Email)
			}
			stay.IdentityID = id
		}
		if _, err := w.CreateStay(ctx, stay); err != nil {
			return res, technical("CRM_CREATE_STAY", "falha ao criar estadia "+stay.SourceID, err)
		}
		res.StaysCreated++
	}

	for _, u := range plan.UpdateStays {
		for _, warn := range u.Warnings {
			log.Printf("⚠️ Estadia %s (%s): %s", u.Existing.ID, u.Proposed.Email, warn)
		}
		if err := w.UpdateStay(ctx, u); err != nil {
			return res, technical("CRM_UPDATE_STAY", "falha ao atualizar estadia "+u.Existing.ID, err)
		}
		res.StaysUpdated++
	}

	return res, nil
}
