package entity

import (
	"strings"
	"time"
)

// DateLayout é o formato de data usado tanto no PMS quanto no CRM.
const DateLayout = "2006-01-02"

// Value Object: endereço de cobrança do hóspede
type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// RawGuestRow é a linha crua entregue pelo extrator, sem nenhuma validação.
type RawGuestRow struct {
	SourceID       string          `json:"source_id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Language       string          `json:"language"`
	BillingCity    string          `json:"billing_city"`
	BillingState   string          `json:"billing_state"`
	BillingCountry string          `json:"billing_country"`
	CheckIn        string          `json:"check_in"`
	CheckOut       string          `json:"check_out"`
	Flags          map[string]bool `json:"flags,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SourceGuestRecord é o hóspede já normalizado. Imutável depois de lido.
type SourceGuestRecord struct {
	SourceID  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Language  string
	Address   Address
	CheckIn   *time.Time
	CheckOut  *time.Time

	// Flags só vêm preenchidas quando o PMS realmente informa o valor.
	Flags EngagementFlags
}

func (r SourceGuestRecord) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// CheckInKey retorna a data de check-in no formato da chave de estadia, ou "".
func (r SourceGuestRecord) CheckInKey() string {
	return FormatDate(r.CheckIn)
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// EmailGroup reúne os registros elegíveis de uma execução que compartilham o mesmo email.
type EmailGroup struct {
	Email         string
	Records       []SourceGuestRecord
	NameKeys      []string
	DistinctNames []string
}

// IsConflict indica um email compartilhado por pessoas diferentes.
func (g EmailGroup) IsConflict() bool {
	return len(g.Records) > 1 && len(g.NameKeys) > 1
}

// ConflictResolution é a decisão manual de qual nome é o dono de um email compartilhado.
type ConflictResolution struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
