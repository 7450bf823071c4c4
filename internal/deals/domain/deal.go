// Package domain holds the deal entity and its stage machine. Stage
// changes return a write-set describing the deal write and, for linked
// deals, the effect on the originating lead.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage is a deal's position in the sales pipeline.
type Stage string

const (
	StageProposal     Stage = "proposal"
	StageNegotiation  Stage = "negotiation"
	StageContractSent Stage = "contract_sent"
	StageWon          Stage = "won"
	StageLost         Stage = "lost"
)

// OpenStages are the stages counted in pipeline value.
var OpenStages = []Stage{StageProposal, StageNegotiation, StageContractSent}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageProposal, StageNegotiation, StageContractSent, StageWon, StageLost:
		return true
	}
	return false
}

// IsTerminal reports whether s closes the deal.
func (s Stage) IsTerminal() bool {
	return s == StageWon || s == StageLost
}

var (
	ErrTitleRequired      = errors.New("deal title is required")
	ErrInvalidStage       = errors.New("invalid deal stage")
	ErrTerminalStage      = errors.New("deal is closed; its stage can no longer change")
	ErrLostReasonRequired = errors.New("lost reason is required when marking a deal as lost")
	ErrInvalidProbability = errors.New("probability must be between 0 and 100")
	ErrNegativeValue      = errors.New("deal value cannot be negative")
)

// Deal is a monetizable opportunity, optionally linked to a lead.
type Deal struct {
	ID                uuid.UUID
	LeadID            *uuid.UUID
	Title             string
	Description       *string
	DealValue         float64
	Currency          string
	Stage             Stage
	Probability       int
	ExpectedCloseDate *time.Time
	OwnerID           *uuid.UUID
	WonDate           *time.Time
	LostDate          *time.Time
	LostReason        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LeadOutcome is the lead status a deal drives its lead into.
type LeadOutcome string

const (
	LeadNegotiating LeadOutcome = "negotiating"
	LeadConverted   LeadOutcome = "converted"
	LeadLost        LeadOutcome = "lost"
)

// LeadEffect is the write a deal operation requires on its linked lead.
// An empty Outcome only refreshes the denormalized deal value.
type LeadEffect struct {
	LeadID     uuid.UUID
	Outcome    LeadOutcome
	LostReason *string
	DealValue  *float64
}

// WriteSet is the result of a deal transition.
type WriteSet struct {
	Deal          Deal
	DealChanged   bool
	StageChanged  bool
	PreviousStage Stage
	Lead          *LeadEffect
}

func validate(d Deal) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if !d.Stage.Valid() {
		return ErrInvalidStage
	}
	if d.Probability < 0 || d.Probability > 100 {
		return ErrInvalidProbability
	}
	if d.DealValue < 0 {
		return ErrNegativeValue
	}
	if d.Stage == StageLost && blank(d.LostReason) {
		return ErrLostReasonRequired
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
