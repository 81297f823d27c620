package usecase

import (
	"strings"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// Valores canônicos aceitos pelo campo de idioma do CRM.
const (
	LanguageEnglish    = "English"
	LanguageSpanish    = "Spanish"
	LanguagePortuguese = "Portuguese"
	LanguageFrench     = "French"
	LanguageGerman     = "German"
	LanguageItalian    = "Italian"
	LanguageOther      = "Other"
)

var languageAliases = map[string]string{
	"en": LanguageEnglish, "eng": LanguageEnglish, "english": LanguageEnglish, "ingles": LanguageEnglish,
	"es": LanguageSpanish, "spa": LanguageSpanish, "spanish": LanguageSpanish, "espanol": LanguageSpanish, "castellano": LanguageSpanish,
	"pt": LanguagePortuguese, "por": LanguagePortuguese, "portuguese": LanguagePortuguese, "portugues": LanguagePortuguese,
	"fr": LanguageFrench, "fra": LanguageFrench, "fre": LanguageFrench, "french": LanguageFrench, "frances": LanguageFrench, "francais": LanguageFrench,
	"de": LanguageGerman, "deu": LanguageGerman, "ger": LanguageGerman, "german": LanguageGerman, "aleman": LanguageGerman, "deutsch": LanguageGerman,
	"it": LanguageItalian, "ita": LanguageItalian, "italian": LanguageItalian, "italiano": LanguageItalian,
}

// MapLanguage converte o idioma do PMS para o conjunto fechado do CRM. Vazio continua vazio.
func MapLanguage(raw string) string {
	key := nameToken(raw)
	if key == "" {
		return ""
	}
	if lang, ok := languageAliases[key]; ok {
		return lang
	}
	// "pt-BR", "en_US"
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	if len(parts) > 1 {
		if lang, ok := languageAliases[nameToken(parts[0])]; ok {
			return lang
		}
	}
	return LanguageOther
}

// BuildProposedStay monta a estadia pelo mapeamento fixo de campos.
// Na criação todas as flags começam em false; na atualização só vão as flags que o PMS informou.
func BuildProposedStay(identityID string, rec entity.SourceGuestRecord, forCreate bool) entity.ProposedStayRecord {
	var flags entity.EngagementFlags
	if forCreate {
		flags = entity.DefaultEngagementFlags()
	} else {
		flags = entity.EngagementFlags{}
	}
	for f, v := range rec.Flags {
		flags[f] = v
	}

	stay := entity.ProposedStayRecord{
		SourceID: rec.SourceID,
		StayRecord: entity.StayRecord{
			IdentityID: identityID,
			Email:      rec.Email,
			FirstName:  rec.FirstName,
			LastName:   rec.LastName,
			Phone:      rec.Phone,
			Language:   MapLanguage(rec.Language),
			Address:    rec.Address,
			CheckOut:   rec.CheckOut,
			Flags:      flags,
		},
	}
	if rec.CheckIn != nil {
		stay.CheckIn = *rec.CheckIn
	}
	return stay
}

func identityCreateFrom(rec entity.SourceGuestRecord) entity.IdentityCreate {
	return entity.IdentityCreate{
		Email:     rec.Email,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Phone:     rec.Phone,
		Language:  MapLanguage(rec.Language),
		SourceID:  rec.SourceID,
	}
}
