package entity

import (
	"sort"
	"time"
)

type EngagementFlag string

const (
	FlagWelcomeCall     EngagementFlag = "welcome_call"
	FlagPreArrivalEmail EngagementFlag = "pre_arrival_email"
	FlagReviewRequested EngagementFlag = "review_requested"
	FlagMarketingOptIn  EngagementFlag = "marketing_opt_in"
)

// AllEngagementFlags é o conjunto fixo de flags de relacionamento da estadia.
var AllEngagementFlags = []EngagementFlag{
	FlagWelcomeCall,
	FlagPreArrivalEmail,
	FlagReviewRequested,
	FlagMarketingOptIn,
}

var flagLabels = map[EngagementFlag]string{
	FlagWelcomeCall:     "Welcome Call",
	FlagPreArrivalEmail: "Pre-Arrival Email",
	FlagReviewRequested: "Review Requested",
	FlagMarketingOptIn:  "Marketing Opt-In",
}

func (f EngagementFlag) Label() string {
	if l, ok := flagLabels[f]; ok {
		return l
	}
	return string(f)
}

func IsEngagementFlag(name string) bool {
	_, ok := flagLabels[EngagementFlag(name)]
	return ok
}

// EngagementFlags guarda apenas as flags conhecidas. Flag ausente = valor não informado.
type EngagementFlags map[EngagementFlag]bool

// DefaultEngagementFlags é o estado de criação: todas as flags em false.
func DefaultEngagementFlags() EngagementFlags {
	flags := make(EngagementFlags, len(AllEngagementFlags))
	for _, f := range AllEngagementFlags {
		flags[f] = false
	}
	return flags
}

// Sorted devolve as flags presentes em ordem estável.
func (f EngagementFlags) Sorted() []EngagementFlag {
	out := make([]EngagementFlag, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// StayKey endereça uma estadia no CRM: (identidade, data de check-in).
type StayKey struct {
	IdentityID string
	CheckIn    string
}

// StayRecord é o conteúdo comum de uma estadia, proposta ou existente.
type StayRecord struct {
	IdentityID string          `json:"identity_id"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Phone      string          `json:"phone"`
	Language   string          `json:"language"`
	Address    Address         `json:"address"`
	CheckIn    time.Time       `json:"check_in"`
	CheckOut   *time.Time      `json:"check_out,omitempty"`
	Flags      EngagementFlags `json:"flags"`
}

func (s StayRecord) Key() StayKey {
	return StayKey{IdentityID: s.IdentityID, CheckIn: s.CheckIn.Format(DateLayout)}
}

// TargetStayRecord é a estadia que já existe no CRM.
type TargetStayRecord struct {
	ID string `json:"id"`
	StayRecord
}

// ProposedStayRecord é a estadia que o motor escreveria.
type ProposedStayRecord struct {
	SourceID string `json:"source_id"`
	StayRecord
}

type FieldChange struct {
	Field         string `json:"field"`
	Label         string `json:"label"`
	FromValue     string `json:"from"`
	ToValue       string `json:"to"`
	IsBooleanFlag bool   `json:"is_boolean_flag"`
}

// StayUpdate é uma atualização com a lista de mudanças para auditoria.
type StayUpdate struct {
	Existing TargetStayRecord   `json:"existing"`
	Proposed ProposedStayRecord `json:"proposed"`
	Changes  []FieldChange      `json:"changes"`
	Warnings []string           `json:"warnings,omitempty"`
}
