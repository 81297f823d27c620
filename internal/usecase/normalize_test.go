package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

func day(s string) *time.Time {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestNormalizeRow_Success(t *testing.T) {
	row := entity.RawGuestRow{
		SourceID:       " res-1 ",
		FirstName:      "  Maria   José ",
		LastName:       "Da  Silva",
		Email:          "  Maria@Example.COM ",
		Phone:          " +54 11 5555 ",
		Language:       "es",
		BillingCity:    " Buenos   Aires",
		BillingCountry: "Argentina",
		CheckIn:        "2026-03-01T15:00:00Z",
		CheckOut:       "2026-03-05",
		Flags:          map[string]bool{"welcome_call": true, "unknown_flag": true},
	}

	rec, verr := NormalizeRow(row)

	require.Nil(t, verr)
	assert.Equal(t, "res-1", rec.SourceID)
	assert.Equal(t, "Maria José", rec.FirstName)
	assert.Equal(t, "Da Silva", rec.LastName)
	assert.Equal(t, "maria@example.com", rec.Email)
	assert.Equal(t, "+54 11 5555", rec.Phone)
	assert.Equal(t, "Buenos Aires", rec.Address.City)
	assert.Equal(t, "2026-03-01", rec.CheckInKey())
	assert.Equal(t, "2026-03-05", entity.FormatDate(rec.CheckOut))
	assert.Equal(t, entity.EngagementFlags{entity.FlagWelcomeCall: true}, rec.Flags)
}

func TestNormalizeRow_Rejections(t *testing.T) {
	base := entity.RawGuestRow{SourceID: "r1", FirstName: "John", Email: "j@x.com", CheckIn: "2026-03-01"}

	cases := []struct {
		name  string
		edit  func(*entity.RawGuestRow)
		field string
	}{
		{"sem source id", func(r *entity.RawGuestRow) { r.SourceID = "  " }, "source_id"},
		{"email inválido", func(r *entity.RawGuestRow) { r.Email = "j@x" }, "email"},
		{"check-in ilegível", func(r *entity.RawGuestRow) { r.CheckIn = "01/03/2026" }, "check_in"},
		{"check-out ilegível", func(r *entity.RawGuestRow) { r.CheckOut = "amanhã" }, "check_out"},
		{"check-out antes do check-in", func(r *entity.RawGuestRow) { r.CheckOut = "2026-02-27" }, "check_out"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := base
			tc.edit(&row)

			rec, verr := NormalizeRow(row)

			require.NotNil(t, verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Empty(t, rec.SourceID, "registro parcial não pode seguir adiante")
		})
	}
}

func TestNormalizeRow_MissingDatesAreNil(t *testing.T) {
	rec, verr := NormalizeRow(entity.RawGuestRow{SourceID: "r1", FirstName: "John", Email: "j@x.com"})

	require.Nil(t, verr)
	assert.Nil(t, rec.CheckIn)
	assert.Nil(t, rec.CheckOut)
	assert.Nil(t, rec.Flags)
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, "jose|munoz", NameKey("José", "Muñoz"))
	assert.Equal(t, NameKey("JOSÉ", "muñoz"), NameKey("jose", "Munoz"))
	assert.Equal(t, "maryjane|oconnor", NameKey("Mary-Jane", "O'Connor"))
	assert.NotEqual(t, NameKey("John", "Doe"), NameKey("Mary", "Doe"))
}

func TestMapLanguage(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"en":         LanguageEnglish,
		"English":    LanguageEnglish,
		"Español":    LanguageSpanish,
		"pt-BR":      LanguagePortuguese,
		"fr_CA":      LanguageFrench,
		"Deutsch":    LanguageGerman,
		"italiano":   LanguageItalian,
		"Klingon":    LanguageOther,
		"  Français": LanguageFrench,
	}

	for in, want := range cases {
		assert.Equal(t, want, MapLanguage(in), "idioma %q", in)
	}
}

func TestBuildProposedStay(t *testing.T) {
	rec := entity.SourceGuestRecord{
		SourceID: "r1", FirstName: "John", LastName: "Doe", Email: "j@x.com",
		Language: "en", CheckIn: day("2026-03-01"), CheckOut: day("2026-03-04"),
		Flags: entity.EngagementFlags{entity.FlagMarketingOptIn: true},
	}

	created := BuildProposedStay("", rec, true)
	assert.Equal(t, "2026-03-01", created.Key().CheckIn)
	assert.Equal(t, LanguageEnglish, created.Language)
	assert.Len(t, created.Flags, len(entity.AllEngagementFlags))
	assert.True(t, created.Flags[entity.FlagMarketingOptIn])
	assert.False(t, created.Flags[entity.FlagWelcomeCall])

	updated := BuildProposedStay("c1", rec, false)
	assert.Equal(t, "c1", updated.IdentityID)
	assert.Equal(t, entity.EngagementFlags{entity.FlagMarketingOptIn: true}, updated.Flags)
}
