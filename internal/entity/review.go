package entity

import (
	"context"
	"strings"
	"time"
)

type ReviewReason string

const (
	ReasonSharedEmailConflict    ReviewReason = "shared-email-conflict"
	ReasonSharedEmailNoNameMatch ReviewReason = "shared-email-no-name-match"
	ReasonSharedEmailNewIdentity ReviewReason = "shared-email-new-identity"
	ReasonMultipleCRMIdentities  ReviewReason = "multiple-crm-identities"
)

// ProposedFields carrega tudo que um humano precisa para recadastrar o hóspede à mão.
type ProposedFields struct {
	SourceID  string `json:"source_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Language  string `json:"language"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

type ReviewItem struct {
	Email          string         `json:"email"`
	ProposedFields ProposedFields `json:"proposed_fields"`
	Reason         ReviewReason   `json:"reason"`
	Details        string         `json:"details"`
}

// ReviewCSVHeader é o layout da exportação para planilha.
var ReviewCSVHeader = []string{
	"Email", "FirstName", "LastName", "Phone", "City", "State", "Country",
	"Language", "CheckInDate", "CheckOutDate", "ReviewReason",
}

func (r ReviewItem) CSVRow() []string {
	f := r.ProposedFields
	return []string{
		r.Email, f.FirstName, f.LastName, f.Phone, f.City, f.State, f.Country,
		f.Language, f.CheckIn, f.CheckOut, string(r.Reason),
	}
}

// NormalizeEmail é a chave de email usada em toda a conciliação.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ReviewScope diz quais emails da fila aberta uma execução recalculou.
// Itens abertos de emails fora do escopo continuam na fila.
type ReviewScope struct {
	All    bool
	Emails []string
}

// FullReviewScope é o escopo de uma extração completa: a fila inteira é refeita.
func FullReviewScope() ReviewScope {
	return ReviewScope{All: true}
}

// Covers indica se o email foi recalculado nesta execução.
func (s ReviewScope) Covers(email string) bool {
	if s.All {
		return true
	}
	email = NormalizeEmail(email)
	for _, e := range s.Emails {
		if e == email {
			return true
		}
	}
	return false
}

type ReviewRepositoryInterface interface {
	// ReplaceOpen troca os itens abertos dos emails do escopo pelos itens da execução.
	ReplaceOpen(ctx context.Context, runID string, scope ReviewScope, items []ReviewItem) error
	ListOpen(ctx context.Context) ([]ReviewItem, error)
	// PendingEmails são os emails com resolução manual gravada depois de `since`:
	// precisam ser reextraídos mesmo sem mudança no PMS para a resolução valer.
	PendingEmails(ctx context.Context, since time.Time) ([]string, error)
}
