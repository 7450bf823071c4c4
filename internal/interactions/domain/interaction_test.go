package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewInteraction(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	sideways := Direction("sideways")
	negative := -5

	tests := []struct {
		name   string
		fields Fields
		want   error
	}{
		{"valid call", Fields{Type: TypeCall, Summary: "Discussed pricing"}, nil},
		{"unknown type", Fields{Type: "fax", Summary: "x"}, ErrInvalidType},
		{"bad direction", Fields{Type: TypeCall, Direction: &sideways, Summary: "x"}, ErrInvalidDirection},
		{"blank summary", Fields{Type: TypeNote, Summary: "   "}, ErrSummaryRequired},
		{"negative duration", Fields{Type: TypeMeeting, Summary: "x", DurationMinutes: &negative}, ErrNegativeDuration},
		{"too many attachments", Fields{Type: TypeEmail, Summary: "x", Attachments: make([]string, MaxAttachments+1)}, ErrTooManyFiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInteraction(uuid.New(), uuid.New(), tt.fields, now)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewInteractionDropsBlankAttachments(t *testing.T) {
	got, err := NewInteraction(uuid.New(), uuid.New(), Fields{
		Type:        TypeEmail,
		Summary:     " Sent brochure ",
		Attachments: []string{"brochure.pdf", "  ", "https://example.com/price.pdf"},
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != "Sent brochure" || len(got.Attachments) != 2 {
		t.Fatalf("unexpected interaction %+v", got)
	}
}
