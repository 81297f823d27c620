package usecase

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

var acceptedDateLayouts = []string{
	entity.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// NormalizeRow transforma a linha crua em SourceGuestRecord ou devolve o motivo da rejeição.
// Registros parciais nunca seguem adiante.
func NormalizeRow(row entity.RawGuestRow) (entity.SourceGuestRecord, *ValidationError) {
	rec := entity.SourceGuestRecord{
		SourceID:  strings.TrimSpace(row.SourceID),
		FirstName: collapseSpaces(row.FirstName),
		LastName:  collapseSpaces(row.LastName),
		Email:     strings.ToLower(strings.TrimSpace(row.Email)),
		Phone:     strings.TrimSpace(row.Phone),
		Language:  strings.TrimSpace(row.Language),
		Address: entity.Address{
			City:    collapseSpaces(row.BillingCity),
			State:   collapseSpaces(row.BillingState),
			Country: collapseSpaces(row.BillingCountry),
		},
	}

	if rec.SourceID == "" {
		return entity.SourceGuestRecord{}, &ValidationError{Field: "source_id", Message: "is required"}
	}

	if verr := ValidateEmail(rec.Email); verr != nil {
		return entity.SourceGuestRecord{}, verr
	}

	checkIn, err := parseDate(row.CheckIn)
	if err != nil {
		return entity.SourceGuestRecord{}, &ValidationError{Field: "check_in", Message: "must be a valid date", Value: row.CheckIn}
	}
	checkOut, err := parseDate(row.CheckOut)
	if err != nil {
		return entity.SourceGuestRecord{}, &ValidationError{Field: "check_out", Message: "must be a valid date", Value: row.CheckOut}
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return entity.SourceGuestRecord{}, &ValidationError{Field: "check_out", Message: "must not be before check_in", Value: row.CheckOut}
	}
	rec.CheckIn = checkIn
	rec.CheckOut = checkOut

	if len(row.Flags) > 0 {
		rec.Flags = entity.EngagementFlags{}
		for name, v := range row.Flags {
			if entity.IsEngagementFlag(name) {
				rec.Flags[entity.EngagementFlag(name)] = v
			}
		}
	}

	return rec, nil
}

// parseDate aceita vazio (nil) e trunca para o dia, que é a granularidade da chave da estadia.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range acceptedDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NameKey é a chave de comparação de nomes: minúsculas, sem acento e só alfanuméricos.
func NameKey(firstName, lastName string) string {
	return nameToken(firstName) + "|" + nameToken(lastName)
}

func nameToken(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
