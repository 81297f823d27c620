package kommo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

var changeFieldCodes = map[string]string{
	"first_name": FieldStayFirstName,
	"last_name":  FieldStayLastName,
	"phone":      FieldStayPhone,
	"language":   FieldStayLanguage,
	"city":       FieldStayCity,
	"state":      FieldStayState,
	"country":    FieldStayCountry,
	"check_out":  FieldStayCheckOut,
}

func flagFieldCode(f entity.EngagementFlag) string {
	return strings.ToUpper(string(f))
}

func text(code, value string) CustomFieldValue {
	return CustomFieldValue{FieldCode: code, Values: []CustomFieldEntry{{Value: value}}}
}

func multitext(code, value string) CustomFieldValue {
	return CustomFieldValue{FieldCode: code, Values: []CustomFieldEntry{{Value: value, EnumCode: "WORK"}}}
}

// compactFields descarta campos de texto vazios: valor vazio nunca é escrito.
func compactFields(fields ...CustomFieldValue) []CustomFieldValue {
	out := make([]CustomFieldValue, 0, len(fields))
	for _, f := range fields {
		if len(f.Values) == 0 {
			continue
		}
		if s, ok := f.Values[0].Value.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func stayFields(s entity.StayRecord) []CustomFieldValue {
	fields := []CustomFieldValue{
		text(FieldStayFirstName, s.FirstName),
		text(FieldStayLastName, s.LastName),
		text(FieldStayEmail, s.Email),
		text(FieldStayPhone, s.Phone),
		text(FieldStayLanguage, s.Language),
		text(FieldStayCity, s.Address.City),
		text(FieldStayState, s.Address.State),
		text(FieldStayCountry, s.Address.Country),
		text(FieldStayCheckIn, s.CheckIn.Format(entity.DateLayout)),
		text(FieldStayCheckOut, entity.FormatDate(s.CheckOut)),
	}
	for _, flag := range s.Flags.Sorted() {
		fields = append(fields, CustomFieldValue{
			FieldCode: flagFieldCode(flag),
			Values:    []CustomFieldEntry{{Value: s.Flags[flag]}},
		})
	}
	return fields
}

func fieldsByCode(values []CustomFieldValue) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for _, v := range values {
		if len(v.Values) == 0 || v.FieldCode == "" {
			continue
		}
		out[v.FieldCode] = v.Values[0].Value
	}
	return out
}

func hasEmail(c ContactResponse, email string) bool {
	for _, f := range c.CustomFieldsValues {
		if f.FieldCode != FieldEmail {
			continue
		}
		for _, v := range f.Values {
			if strings.EqualFold(strings.TrimSpace(asString(v.Value)), email) {
				return true
			}
		}
	}
	return false
}

func identityFrom(c ContactResponse, email string) entity.IdentityRecord {
	first, last := c.FirstName, c.LastName
	if first == "" && last == "" {
		first, last, _ = strings.Cut(strings.TrimSpace(c.Name), " ")
	}
	return entity.IdentityRecord{
		ID:        strconv.Itoa(c.ID),
		FirstName: first,
		LastName:  last,
		Email:     email,
	}
}

// stayFrom converte um lead em estadia. Lead sem check-in não é estadia do sync.
func stayFrom(l LeadResponse, identityID string) (entity.TargetStayRecord, bool) {
	f := fieldsByCode(l.CustomFieldsValues)

	checkIn, ok := asDate(f[FieldStayCheckIn])
	if !ok || identityID == "" {
		return entity.TargetStayRecord{}, false
	}

	stay := entity.TargetStayRecord{
		ID: strconv.Itoa(l.ID),
		StayRecord: entity.StayRecord{
			IdentityID: identityID,
			Email:      strings.ToLower(asString(f[FieldStayEmail])),
			FirstName:  asString(f[FieldStayFirstName]),
			LastName:   asString(f[FieldStayLastName]),
			Phone:      asString(f[FieldStayPhone]),
			Language:   asString(f[FieldStayLanguage]),
			Address: entity.Address{
				City:    asString(f[FieldStayCity]),
				State:   asString(f[FieldStayState]),
				Country: asString(f[FieldStayCountry]),
			},
			CheckIn: checkIn,
			Flags:   entity.EngagementFlags{},
		},
	}
	if co, ok := asDate(f[FieldStayCheckOut]); ok {
		stay.CheckOut = &co
	}
	for _, flag := range entity.AllEngagementFlags {
		stay.Flags[flag] = asBool(f[flagFieldCode(flag)])
	}
	return stay, true
}

func asString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// asDate aceita "2006-01-02" ou timestamp unix (campos de data nativos do Kommo).
func asDate(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		if t, err := time.Parse(entity.DateLayout, s); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return truncateDay(t), true
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return truncateDay(time.Unix(n, 0)), true
		}
	case float64:
		return truncateDay(time.Unix(int64(x), 0)), true
	}
	return time.Time{}, false
}

func asBool(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b
	case float64:
		return x != 0
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
