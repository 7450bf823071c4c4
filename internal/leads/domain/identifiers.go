package domain

import (
	"fmt"
	"strings"

	"leadflow_backend/platform/phone"
)

// Identifiers are the contact fields that must be unique across leads.
type Identifiers struct {
	Phone           *string
	Email           *string
	InstagramHandle *string
	WhatsAppNumber  *string
}

// Field names one identifier.
type Field string

const (
	FieldPhone           Field = "phone"
	FieldEmail           Field = "email"
	FieldInstagramHandle Field = "instagram_handle"
	FieldWhatsAppNumber  Field = "whatsapp_number"
)

// FieldPrecedence decides which field is reported when several match.
var FieldPrecedence = []Field{
	FieldPhone,
	FieldEmail,
	FieldInstagramHandle,
	FieldWhatsAppNumber,
}

// Column is the leads table column backing the field.
func (f Field) Column() string {
	return string(f)
}

// Label is the human-readable field name used in conflict messages.
func (f Field) Label() string {
	switch f {
	case FieldPhone:
		return "phone number"
	case FieldEmail:
		return "email"
	case FieldInstagramHandle:
		return "Instagram handle"
	case FieldWhatsAppNumber:
		return "WhatsApp number"
	}
	return string(f)
}

// Value returns the identifier stored under f.
func (ids Identifiers) Value(f Field) *string {
	switch f {
	case FieldPhone:
		return ids.Phone
	case FieldEmail:
		return ids.Email
	case FieldInstagramHandle:
		return ids.InstagramHandle
	case FieldWhatsAppNumber:
		return ids.WhatsAppNumber
	}
	return nil
}

// Empty reports whether no identifier is present.
func (ids Identifiers) Empty() bool {
	for _, f := range FieldPrecedence {
		if ids.Value(f) != nil {
			return false
		}
	}
	return true
}

// Normalizer canonicalizes identifiers so equal contacts compare equal.
type Normalizer struct {
	region string
}

// NewNormalizer returns a normalizer that parses national phone numbers
// against region (ISO 3166-1 alpha-2).
func NewNormalizer(region string) Normalizer {
	return Normalizer{region: strings.ToUpper(strings.TrimSpace(region))}
}

// Phone trims the number and formats it as E.164 when it parses.
func (n Normalizer) Phone(value string) string {
	return phone.NormalizeE164(value, n.region)
}

// Email trims and lower-cases.
func (n Normalizer) Email(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// InstagramHandle trims and strips one leading @.
func (n Normalizer) InstagramHandle(value string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), "@"))
}

// Identifiers normalizes every present identifier. Values that are blank
// after normalization become nil.
func (n Normalizer) Identifiers(ids Identifiers) Identifiers {
	return Identifiers{
		Phone:           normalizeOptional(ids.Phone, n.Phone),
		Email:           normalizeOptional(ids.Email, n.Email),
		InstagramHandle: normalizeOptional(ids.InstagramHandle, n.InstagramHandle),
		WhatsAppNumber:  normalizeOptional(ids.WhatsAppNumber, n.Phone),
	}
}

func normalizeOptional(value *string, fn func(string) string) *string {
	if value == nil {
		return nil
	}
	normalized := fn(*value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

// MatchedField returns the first field, in precedence order, on which
// existing carries the same identifier as candidate.
func MatchedField(existing, candidate Identifiers) (Field, bool) {
	for _, f := range FieldPrecedence {
		want := candidate.Value(f)
		got := existing.Value(f)
		if want != nil && got != nil && *want == *got {
			return f, true
		}
	}
	return "", false
}

// DuplicateMessage describes a conflict so the caller can link to the
// existing lead instead of retrying.
func DuplicateMessage(field Field, existingName string) string {
	return fmt.Sprintf("A lead with this %s already exists: %s", field.Label(), existingName)
}
