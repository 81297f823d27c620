package kommo

// Códigos dos campos customizados usados pelo sync. Contato: PHONE/EMAIL são nativos;
// lead (estadia): campos criados com esses códigos no funil de hóspedes.
const (
	FieldPhone = "PHONE"
	FieldEmail = "EMAIL"

	FieldStayFirstName = "GUEST_FIRST_NAME"
	FieldStayLastName  = "GUEST_LAST_NAME"
	FieldStayEmail     = "GUEST_EMAIL"
	FieldStayPhone     = "GUEST_PHONE"
	FieldStayLanguage  = "GUEST_LANGUAGE"
	FieldStayCity      = "GUEST_CITY"
	FieldStayState     = "GUEST_STATE"
	FieldStayCountry   = "GUEST_COUNTRY"
	FieldStayCheckIn   = "CHECK_IN"
	FieldStayCheckOut  = "CHECK_OUT"
	FieldStaySourceID  = "PMS_SOURCE_ID"
)

type CustomFieldValue struct {
	FieldID   int                `json:"field_id,omitempty"`
	FieldCode string             `json:"field_code,omitempty"`
	Values    []CustomFieldEntry `json:"values"`
}

type CustomFieldEntry struct {
	Value    interface{} `json:"value"`
	EnumCode string      `json:"enum_code,omitempty"`
}

type ContactResponse struct {
	ID                 int                `json:"id"`
	Name               string             `json:"name"`
	FirstName          string             `json:"first_name"`
	LastName           string             `json:"last_name"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values"`
	Embedded           struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
	} `json:"_embedded"`
}

type LeadResponse struct {
	ID                 int                `json:"id"`
	Name               string             `json:"name"`
	PipelineID         int                `json:"pipeline_id"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values"`
	Embedded           struct {
		Contacts []struct {
			ID     int  `json:"id"`
			IsMain bool `json:"is_main"`
		} `json:"contacts"`
	} `json:"_embedded"`
}

type contactsEnvelope struct {
	Embedded struct {
		Contacts []ContactResponse `json:"contacts"`
	} `json:"_embedded"`
}

type leadsEnvelope struct {
	Embedded struct {
		Leads []LeadResponse `json:"leads"`
	} `json:"_embedded"`
}

type createContactRequest struct {
	Name               string             `json:"name"`
	FirstName          string             `json:"first_name"`
	LastName           string             `json:"last_name"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values,omitempty"`
}

type createLeadRequest struct {
	Name               string             `json:"name"`
	PipelineID         int                `json:"pipeline_id,omitempty"`
	StatusID           int                `json:"status_id,omitempty"`
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values"`
	Embedded           leadEmbedded       `json:"_embedded"`
}

type leadEmbedded struct {
	Tags     []tagRef `json:"tags,omitempty"`
	Contacts []idRef  `json:"contacts,omitempty"`
}

type tagRef struct {
	Name string `json:"name"`
}

type idRef struct {
	ID int `json:"id"`
}

type updateLeadRequest struct {
	CustomFieldsValues []CustomFieldValue `json:"custom_fields_values"`
}
