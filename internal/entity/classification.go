package entity

type ClassificationKind string

const (
	KindEligible ClassificationKind = "eligible"
	KindAgent    ClassificationKind = "agent"
	KindInvalid  ClassificationKind = "invalid"
)

// AgentCategory é o motivo pelo qual um registro não é tratado como hóspede.
type AgentCategory string

const (
	CategoryAgentDomain  AgentCategory = "agent-domain"
	CategoryBookingProxy AgentCategory = "booking-proxy"
	CategoryExpediaProxy AgentCategory = "expedia-proxy"
	CategoryCompany      AgentCategory = "company"
)

type ClassificationResult struct {
	Kind     ClassificationKind
	Category AgentCategory
	Record   SourceGuestRecord
	Reason   string
}

func (c ClassificationResult) IsEligible() bool {
	return c.Kind == KindEligible
}
