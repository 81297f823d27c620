package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

const likelySamePersonThreshold = 0.8

// ReviewQueueBuilder junta tudo que ficou fora do sync automático. Guarda o registro
// inteiro, não só a contagem: a fila é resolvida à mão depois, via planilha.
type ReviewQueueBuilder struct {
	items []entity.ReviewItem
}

func NewReviewQueueBuilder() *ReviewQueueBuilder {
	return &ReviewQueueBuilder{}
}

func (b *ReviewQueueBuilder) Add(rec entity.SourceGuestRecord, reason entity.ReviewReason, details string) {
	b.items = append(b.items, entity.ReviewItem{
		Email:          rec.Email,
		ProposedFields: ProposedFieldsFrom(rec),
		Reason:         reason,
		Details:        details,
	})
}

// AddGroup manda para revisão os membros retidos de um grupo de email, cada um com
// os outros nomes vistos sob o mesmo email e o contexto do CRM.
func (b *ReviewQueueBuilder) AddGroup(g entity.EmailGroup, held []entity.SourceGuestRecord, reason entity.ReviewReason, crmContext string) {
	dupes := likelyDuplicates(g.Records, likelySamePersonThreshold)

	for _, rec := range held {
		var details []string

		own := NameKey(rec.FirstName, rec.LastName)
		var others []string
		for i, name := range g.DistinctNames {
			if g.NameKeys[i] != own {
				others = append(others, name)
			}
		}
		if len(others) > 0 {
			details = append(details, "other names seen under this email: "+strings.Join(others, "; "))
		} else if len(g.Records) > 1 {
			details = append(details, fmt.Sprintf("%d records share this email as %s", len(g.Records), rec.FullName()))
		}
		if crmContext != "" {
			details = append(details, crmContext)
		}
		if dupes != "" {
			details = append(details, "likely same person: "+dupes)
		}

		b.Add(rec, reason, strings.Join(details, " | "))
	}
}

func (b *ReviewQueueBuilder) Len() int {
	return len(b.items)
}

func (b *ReviewQueueBuilder) Items() []entity.ReviewItem {
	out := make([]entity.ReviewItem, len(b.items))
	copy(out, b.items)
	return out
}

func ProposedFieldsFrom(rec entity.SourceGuestRecord) entity.ProposedFields {
	return entity.ProposedFields{
		SourceID:  rec.SourceID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Phone:     rec.Phone,
		City:      rec.Address.City,
		State:     rec.Address.State,
		Country:   rec.Address.Country,
		Language:  MapLanguage(rec.Language),
		CheckIn:   entity.FormatDate(rec.CheckIn),
		CheckOut:  entity.FormatDate(rec.CheckOut),
	}
}

// crmContextFor descreve o que o CRM sabe sobre o email, para quem for revisar.
func crmContextFor(m entity.IdentityMatch) string {
	switch m.Status {
	case entity.IdentityExists:
		if m.Identity != nil {
			return fmt.Sprintf("CRM identity %s is %s", m.IdentityID, m.Identity.FullName())
		}
		return "CRM identity " + m.IdentityID
	case entity.IdentityAmbiguous:
		return fmt.Sprintf("%d CRM identities share this email", m.Count)
	default:
		return "no CRM identity for this email"
	}
}
