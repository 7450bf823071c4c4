package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fields are the caller-supplied values for a new deal.
type Fields struct {
	LeadID            *uuid.UUID
	Title             string
	Description       *string
	DealValue         float64
	Currency          string
	Stage             Stage
	Probability       int
	ExpectedCloseDate *time.Time
	OwnerID           *uuid.UUID
	LostReason        *string
}

// NewDeal builds a deal. A linked lead moves to negotiating and receives
// the deal value; a deal created already closed drives the lead the same
// way a stage change would.
func NewDeal(f Fields, today time.Time, now time.Time) (WriteSet, error) {
	deal := Deal{
		ID:                uuid.New(),
		LeadID:            f.LeadID,
		Title:             strings.TrimSpace(f.Title),
		Description:       f.Description,
		DealValue:         f.DealValue,
		Currency:          strings.ToUpper(strings.TrimSpace(f.Currency)),
		Stage:             f.Stage,
		Probability:       f.Probability,
		ExpectedCloseDate: f.ExpectedCloseDate,
		OwnerID:           f.OwnerID,
		LostReason:        f.LostReason,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if deal.Stage == "" {
		deal.Stage = StageProposal
	}
	switch deal.Stage {
	case StageWon:
		deal.WonDate = &today
	case StageLost:
		deal.LostDate = &today
	}
	if err := validate(deal); err != nil {
		return WriteSet{}, err
	}

	ws := WriteSet{Deal: deal, DealChanged: true, StageChanged: true}
	if deal.LeadID != nil {
		value := deal.DealValue
		effect := &LeadEffect{LeadID: *deal.LeadID, Outcome: LeadNegotiating, DealValue: &value}
		switch deal.Stage {
		case StageWon:
			effect.Outcome = LeadConverted
		case StageLost:
			effect.Outcome = LeadLost
			effect.LostReason = deal.LostReason
		}
		ws.Lead = effect
	}
	return ws, nil
}

// ChangeStage moves current to next.
//   - re-saving the current stage is a no-op, so won_date and lost_date
//     keep their first value
//   - won and lost are terminal
//   - entering won stamps won_date and converts the linked lead
//   - entering lost needs a reason, stamps lost_date and marks the linked
//     lead lost with the same reason
func ChangeStage(current Deal, next Stage, lostReason *string, today time.Time, now time.Time) (WriteSet, error) {
	if !next.Valid() {
		return WriteSet{}, ErrInvalidStage
	}
	if next == current.Stage {
		return WriteSet{Deal: current, PreviousStage: current.Stage}, nil
	}
	if current.Stage.IsTerminal() {
		return WriteSet{}, ErrTerminalStage
	}

	deal := current
	deal.Stage = next
	deal.UpdatedAt = now
	ws := WriteSet{DealChanged: true, StageChanged: true, PreviousStage: current.Stage}

	switch next {
	case StageWon:
		if deal.WonDate == nil {
			deal.WonDate = &today
		}
		if deal.LeadID != nil {
			ws.Lead = &LeadEffect{LeadID: *deal.LeadID, Outcome: LeadConverted}
		}
	case StageLost:
		if !blank(lostReason) {
			reason := strings.TrimSpace(*lostReason)
			deal.LostReason = &reason
		}
		if blank(deal.LostReason) {
			return WriteSet{}, ErrLostReasonRequired
		}
		if deal.LostDate == nil {
			deal.LostDate = &today
		}
		if deal.LeadID != nil {
			ws.Lead = &LeadEffect{LeadID: *deal.LeadID, Outcome: LeadLost, LostReason: deal.LostReason}
		}
	}

	if err := validate(deal); err != nil {
		return WriteSet{}, err
	}
	ws.Deal = deal
	return ws, nil
}

// Patch lists the non-stage fields of a deal.
type Patch struct {
	Title             *string
	Description       *string
	ClearDescription  bool
	DealValue         *float64
	Currency          *string
	Probability       *int
	ExpectedCloseDate *time.Time
	ClearCloseDate    bool
	OwnerID           *uuid.UUID
}

// ApplyUpdate edits non-stage fields. A value change on an open, linked
// deal refreshes the lead's denormalized deal value.
func ApplyUpdate(current Deal, p Patch, now time.Time) (WriteSet, error) {
	deal := current
	if p.Title != nil {
		deal.Title = strings.TrimSpace(*p.Title)
	}
	if p.ClearDescription {
		deal.Description = nil
	} else if p.Description != nil {
		deal.Description = p.Description
	}
	if p.DealValue != nil {
		deal.DealValue = *p.DealValue
	}
	if p.Currency != nil {
		deal.Currency = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}
	if p.Probability != nil {
		deal.Probability = *p.Probability
	}
	if p.ClearCloseDate {
		deal.ExpectedCloseDate = nil
	} else if p.ExpectedCloseDate != nil {
		deal.ExpectedCloseDate = p.ExpectedCloseDate
	}
	if p.OwnerID != nil {
		deal.OwnerID = p.OwnerID
	}
	if err := validate(deal); err != nil {
		return WriteSet{}, err
	}

	deal.UpdatedAt = now
	ws := WriteSet{Deal: deal, DealChanged: true, PreviousStage: current.Stage}
	if deal.LeadID != nil && !deal.Stage.IsTerminal() && deal.DealValue != current.DealValue {
		value := deal.DealValue
		ws.Lead = &LeadEffect{LeadID: *deal.LeadID, DealValue: &value}
	}
	return ws, nil
}
