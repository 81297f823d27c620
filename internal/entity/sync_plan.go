package entity

// RecordAction é a decisão tomada para cada registro extraído.
type RecordAction string

const (
	ActionSkipNonGuest   RecordAction = "skip-as-non-guest"
	ActionSkipInvalid    RecordAction = "skip-invalid"
	ActionCreateIdentity RecordAction = "create-identity"
	ActionCreateStay     RecordAction = "create-stay-record"
	ActionUpdateStay     RecordAction = "update-stay-record"
	ActionNoOp           RecordAction = "no-op-already-synced"
	ActionNeedsReview    RecordAction = "needs-review"
)

type RecordDecision struct {
	SourceID string       `json:"source_id"`
	Email    string       `json:"email"`
	Action   RecordAction `json:"action"`
	Detail   string       `json:"detail,omitempty"`
}

// RunSummary são os contadores de uma execução, enviados para relatório.
type RunSummary struct {
	Extracted         int                   `json:"extracted"`
	Eligible          int                   `json:"eligible"`
	FilteredAgent     int                   `json:"filtered_agent"`
	FilteredBy        map[AgentCategory]int `json:"filtered_by"`
	Invalid           int                   `json:"invalid"`
	IdentitiesCreated int                   `json:"identities_created"`
	Created           int                   `json:"created"`
	Updated           int                   `json:"updated"`
	NoOp              int                   `json:"no_op"`
	NeedsReview       int                   `json:"needs_review"`
	ConflictEmails    int                   `json:"conflict_emails"`
	FlagResetWarnings int                   `json:"flag_reset_warnings"`
}

func NewRunSummary() RunSummary {
	return RunSummary{FilteredBy: map[AgentCategory]int{}}
}

// SyncPlan é tudo que o motor decidiu: escritas a aplicar, fila de revisão e contadores.
type SyncPlan struct {
	CreateIdentities []IdentityCreate     `json:"create_identities"`
	CreateStays      []ProposedStayRecord `json:"create_stays"`
	UpdateStays      []StayUpdate         `json:"update_stays"`
	Review           []ReviewItem         `json:"review"`
	Decisions        []RecordDecision     `json:"decisions"`
	Invalid          []InvalidRecord      `json:"invalid"`
	Summary          RunSummary           `json:"summary"`
}

// InvalidRecord fica só para contagem e auditoria; nunca é corrigido.
type InvalidRecord struct {
	SourceID string `json:"source_id"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Reason   string `json:"reason"`
}

func (p *SyncPlan) HasWrites() bool {
	return len(p.CreateIdentities) > 0 || len(p.CreateStays) > 0 || len(p.UpdateStays) > 0
}
