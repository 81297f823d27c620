package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// Classifier separa hóspedes reais de agências, proxies de OTA e reservas de empresa.
// As listas vêm de AgentRules, injetadas; nada aqui é fixo no código.
type Classifier struct {
	rules        entity.AgentRules
	placeholders map[string]bool
}

func NewClassifier(rules entity.AgentRules) *Classifier {
	c := &Classifier{
		rules: entity.AgentRules{
			Version:             rules.Version,
			BookingProxyMarkers: lowerAll(rules.BookingProxyMarkers),
			ExpediaProxyMarkers: lowerAll(rules.ExpediaProxyMarkers),
			AgentKeywords:       lowerAll(rules.AgentKeywords),
		},
		placeholders: make(map[string]bool, len(rules.PlaceholderNames)),
	}
	for _, p := range rules.PlaceholderNames {
		c.placeholders[strings.ToLower(strings.TrimSpace(p))] = true
	}
	return c
}

func (c *Classifier) RulesVersion() string {
	return c.rules.Version
}

// ClassifyRow normaliza e classifica uma linha crua.
func (c *Classifier) ClassifyRow(row entity.RawGuestRow) entity.ClassificationResult {
	rec, verr := NormalizeRow(row)
	if verr != nil {
		return entity.ClassificationResult{
			Kind:   entity.KindInvalid,
			Record: entity.SourceGuestRecord{SourceID: strings.TrimSpace(row.SourceID), Email: strings.TrimSpace(row.Email)},
			Reason: verr.Error(),
		}
	}
	return c.Classify(rec)
}

// Classify aplica as regras na ordem; a primeira que casar vence.
func (c *Classifier) Classify(rec entity.SourceGuestRecord) entity.ClassificationResult {
	domain := EmailDomain(rec.Email)

	if m := containsAny(domain, c.rules.BookingProxyMarkers); m != "" {
		return agent(rec, entity.CategoryBookingProxy, m)
	}
	if m := containsAny(domain, c.rules.ExpediaProxyMarkers); m != "" {
		return agent(rec, entity.CategoryExpediaProxy, m)
	}
	if c.isPlaceholderName(rec.FirstName) {
		return agent(rec, entity.CategoryCompany, "first name "+quoteOrEmpty(rec.FirstName))
	}
	if m := containsAny(domain, c.rules.AgentKeywords); m != "" {
		return agent(rec, entity.CategoryAgentDomain, m)
	}

	return entity.ClassificationResult{Kind: entity.KindEligible, Record: rec}
}

func (c *Classifier) isPlaceholderName(first string) bool {
	first = strings.TrimSpace(first)
	if first == "" {
		return true
	}
	if utf8.RuneCountInString(first) == 1 {
		r, _ := utf8.DecodeRuneInString(first)
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return c.placeholders[strings.ToLower(first)]
}

func agent(rec entity.SourceGuestRecord, cat entity.AgentCategory, reason string) entity.ClassificationResult {
	return entity.ClassificationResult{Kind: entity.KindAgent, Category: cat, Record: rec, Reason: reason}
}

func containsAny(s string, needles []string) string {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return n
		}
	}
	return ""
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return `"` + s + `"`
}
