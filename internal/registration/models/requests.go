package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"unicode/utf8"

	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/email"
)

// Field names as they appear on the wire, in declaration order.
const (
	FieldFullName     = "fullName"
	FieldEmail        = "email"
	FieldOrganization = "org"
	FieldMunicipality = "municipality"
	FieldRole         = "role"
	FieldAbout        = "about"
	FieldAboutOther   = "aboutOther"
	FieldNotes        = "notes"
	FieldConsent      = "consent"
)

// User-facing messages, one per field.
const (
	MsgInvalidPayload = "Nederīgi dati"
	MsgFullName       = "Lūdzu, ievadiet vārdu un uzvārdu"
	MsgEmail          = "Nederīga e-pasta adrese"
	MsgOrganization   = "Lūdzu, norādiet organizāciju"
	MsgMunicipality   = "Lūdzu, norādiet pašvaldību"
	MsgRole           = "Lūdzu, norādiet amatu"
	MsgAbout          = "Lūdzu, izvēlieties variantu"
	MsgAboutOther     = "Lūdzu, precizējiet 'Cits' lauku"
	MsgNotes          = "Piezīmes ir pārāk garas"
	MsgConsent        = "Nepieciešama piekrišana"
	MsgTooLong        = "Teksts ir pārāk garš"
)

const (
	minFullNameLen = 2
	maxFieldLen    = 200
	maxNotesLen    = 2000
)

// Policy carries the validation knobs that differ between deployments.
type Policy struct {
	// StrictFields makes organization, municipality and role required.
	StrictFields bool
}

// RegisterRequest is the HTTP request body for POST /api/register.
type RegisterRequest struct {
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	Organization string          `json:"org"`
	Municipality string          `json:"municipality"`
	Role         string          `json:"role"`
	About        string          `json:"about"`
	AboutOther   string          `json:"aboutOther"`
	Notes        string          `json:"notes" sanitize:"multiline"`
	Consent      json.RawMessage `json:"consent"`

	// mistyped lists the string fields whose JSON value was not a string.
	mistyped []string
}

// UnmarshalJSON decodes field by field. A value of the wrong JSON type is
// recorded against its field and reported by Validate in declaration order;
// only a body that is not a JSON object fails here.
func (r *RegisterRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = RegisterRequest{Consent: raw[FieldConsent]}
	fields := []struct {
		name string
		dst  *string
	}{
		{FieldFullName, &r.FullName},
		{FieldEmail, &r.Email},
		{FieldOrganization, &r.Organization},
		{FieldMunicipality, &r.Municipality},
		{FieldRole, &r.Role},
		{FieldAbout, &r.About},
		{FieldAboutOther, &r.AboutOther},
		{FieldNotes, &r.Notes},
	}
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			r.mistyped = append(r.mistyped, f.name)
		}
	}
	return nil
}

func (r *RegisterRequest) isMistyped(field string) bool {
	return slices.Contains(r.mistyped, field)
}

// Validate normalizes the request and checks the field rules in declaration
// order. The first violated rule is returned as a CodeValidation error whose
// Field names the input field.
func (r *RegisterRequest) Validate(policy Policy) (*Submission, error) {
	if r == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, MsgInvalidPayload)
	}
	sanitize(r)

	if err := r.checkText(FieldFullName, MsgFullName, r.FullName, true); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(r.FullName) < minFullNameLen {
		return nil, dErrors.Field(FieldFullName, MsgFullName)
	}
	if r.isMistyped(FieldEmail) || len(r.Email) > maxFieldLen || !email.Valid(r.Email) {
		return nil, dErrors.Field(FieldEmail, MsgEmail)
	}
	if err := r.checkText(FieldOrganization, MsgOrganization, r.Organization, policy.StrictFields); err != nil {
		return nil, err
	}
	if err := r.checkText(FieldMunicipality, MsgMunicipality, r.Municipality, policy.StrictFields); err != nil {
		return nil, err
	}
	if err := r.checkText(FieldRole, MsgRole, r.Role, policy.StrictFields); err != nil {
		return nil, err
	}

	if r.isMistyped(FieldAbout) {
		return nil, dErrors.Field(FieldAbout, MsgAbout)
	}
	about, err := domain.ParseAbout(r.About)
	if err != nil {
		return nil, dErrors.Field(FieldAbout, MsgAbout)
	}

	if r.isMistyped(FieldAboutOther) {
		return nil, dErrors.Field(FieldAboutOther, MsgAboutOther)
	}
	aboutOther := ""
	if about == domain.AboutOther {
		if err := r.checkText(FieldAboutOther, MsgAboutOther, r.AboutOther, true); err != nil {
			return nil, err
		}
		aboutOther = r.AboutOther
	}

	if r.isMistyped(FieldNotes) || utf8.RuneCountInString(r.Notes) > maxNotesLen {
		return nil, dErrors.Field(FieldNotes, MsgNotes)
	}

	if !ConsentGiven(r.Consent) {
		return nil, dErrors.Field(FieldConsent, MsgConsent)
	}

	return &Submission{
		FullName:     r.FullName,
		Email:        r.Email,
		Organization: r.Organization,
		Municipality: r.Municipality,
		Role:         r.Role,
		About:        about,
		AboutOther:   aboutOther,
		Notes:        r.Notes,
		Consent:      true,
	}, nil
}

// checkText applies the type, presence and length rules of a single-line field.
func (r *RegisterRequest) checkText(field, msg, value string, required bool) error {
	if r.isMistyped(field) {
		return dErrors.Field(field, msg)
	}
	if required && value == "" {
		return dErrors.Field(field, msg)
	}
	if utf8.RuneCountInString(value) > maxFieldLen {
		return dErrors.Field(field, MsgTooLong)
	}
	return nil
}

// ConsentGiven reports whether raw is the JSON literal true. Strings, null,
// false and absence all count as no consent.
func ConsentGiven(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}
