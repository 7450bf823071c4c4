// Package domain holds the write-once interaction log entry.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeCall        Type = "call"
	TypeWhatsApp    Type = "whatsapp"
	TypeEmail       Type = "email"
	TypeMeeting     Type = "meeting"
	TypeSMS         Type = "sms"
	TypeInstagramDM Type = "instagram_dm"
	TypeNote        Type = "note"
	TypeOther       Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCall, TypeWhatsApp, TypeEmail, TypeMeeting, TypeSMS, TypeInstagramDM, TypeNote, TypeOther:
		return true
	}
	return false
}

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

const MaxAttachments = 20

var (
	ErrInvalidType      = errors.New("invalid interaction type")
	ErrInvalidDirection = errors.New("invalid interaction direction")
	ErrSummaryRequired  = errors.New("interaction summary is required")
	ErrNegativeDuration = errors.New("duration cannot be negative")
	ErrTooManyFiles     = errors.New("too many attachments")
)

// Interaction is an immutable record of contact with a lead. StatusBefore
// and StatusAfter capture the lead status around the moment it was logged.
type Interaction struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	UserID          uuid.UUID
	Type            Type
	Direction       *Direction
	Summary         string
	Outcome         *string
	StatusBefore    string
	StatusAfter     string
	DurationMinutes *int
	MeetingLocation *string
	MeetingLink     *string
	Attachments     []string
	CreatedAt       time.Time
}

// Fields are the caller-supplied values of an interaction.
type Fields struct {
	Type            Type
	Direction       *Direction
	Summary         string
	Outcome         *string
	DurationMinutes *int
	MeetingLocation *string
	MeetingLink     *string
	Attachments     []string
}

// NewInteraction validates f. The lead statuses are filled in by the store
// while it holds the lead row.
func NewInteraction(leadID, userID uuid.UUID, f Fields, now time.Time) (Interaction, error) {
	if !f.Type.Valid() {
		return Interaction{}, ErrInvalidType
	}
	if f.Direction != nil && *f.Direction != DirectionInbound && *f.Direction != DirectionOutbound {
		return Interaction{}, ErrInvalidDirection
	}
	summary := strings.TrimSpace(f.Summary)
	if summary == "" {
		return Interaction{}, ErrSummaryRequired
	}
	if f.DurationMinutes != nil && *f.DurationMinutes < 0 {
		return Interaction{}, ErrNegativeDuration
	}
	if len(f.Attachments) > MaxAttachments {
		return Interaction{}, ErrTooManyFiles
	}

	attachments := make([]string, 0, len(f.Attachments))
	for _, a := range f.Attachments {
		if a = strings.TrimSpace(a); a != "" {
			attachments = append(attachments, a)
		}
	}

	return Interaction{
		ID:              uuid.New(),
		LeadID:          leadID,
		UserID:          userID,
		Type:            f.Type,
		Direction:       f.Direction,
		Summary:         summary,
		Outcome:         f.Outcome,
		DurationMinutes: f.DurationMinutes,
		MeetingLocation: f.MeetingLocation,
		MeetingLink:     f.MeetingLink,
		Attachments:     attachments,
		CreatedAt:       now,
	}, nil
}
