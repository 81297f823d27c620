package entity

import "strings"

type IdentityStatus string

const (
	IdentityNew       IdentityStatus = "new"
	IdentityExists    IdentityStatus = "exists"
	IdentityAmbiguous IdentityStatus = "ambiguous"
)

// IdentityRecord é o contato do CRM ("quem é essa pessoa").
type IdentityRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (i IdentityRecord) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// IdentityMatch é o resultado de resolver um email contra o CRM.
type IdentityMatch struct {
	Email      string
	Status     IdentityStatus
	IdentityID string
	Count      int
	Identity   *IdentityRecord
}

// IdentityCreate é um contato novo a ser criado. Identidades nunca são atualizadas.
type IdentityCreate struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Language  string `json:"language"`
	SourceID  string `json:"source_id"`
}
