package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Optional distinguishes "leave unchanged" (Set false) from "clear"
// (Set true, Value nil) in a patch.
type Optional[T any] struct {
	Value *T
	Set   bool
}

// SetTo returns an Optional that assigns v.
func SetTo[T any](v T) Optional[T] {
	return Optional[T]{Value: &v, Set: true}
}

// Cleared returns an Optional that assigns nil.
func Cleared[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o Optional[T]) apply(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}

// Fields are the caller-supplied values for a new lead.
type Fields struct {
	Name             string
	Company          *string
	Phone            *string
	Email            *string
	InstagramHandle  *string
	WhatsAppNumber   *string
	Website          *string
	LinkedInURL      *string
	FacebookURL      *string
	Notes            *string
	Source           *string
	Status           Status
	Priority         Priority
	AssignedTo       *uuid.UUID
	NextFollowUpDate *time.Time
	LostReason       *string
	DealValue        *float64
}

// Patch lists the mutable fields of a lead. Server-computed fields
// (assigned_at, converted_at, last_contacted_at, follow_up_count) are
// not part of it.
type Patch struct {
	Name             *string
	Company          Optional[string]
	Phone            Optional[string]
	Email            Optional[string]
	InstagramHandle  Optional[string]
	WhatsAppNumber   Optional[string]
	Website          Optional[string]
	LinkedInURL      Optional[string]
	FacebookURL      Optional[string]
	Notes            Optional[string]
	Source           Optional[string]
	Status           *Status
	Priority         *Priority
	AssignedTo       Optional[uuid.UUID]
	NextFollowUpDate Optional[time.Time]
	LostReason       Optional[string]
	DealValue        Optional[float64]
}

// TouchesIdentifiers reports whether the patch writes a unique identifier.
func (p Patch) TouchesIdentifiers() bool {
	return p.Phone.Set || p.Email.Set || p.InstagramHandle.Set || p.WhatsAppNumber.Set
}

// UpdateOptions carries the operation context of a transition.
type UpdateOptions struct {
	// ContactTriggering marks updates that originate from a contact with
	// the lead; they refresh last_contacted_at.
	ContactTriggering bool
	Now               time.Time
}

// Transition is the write-set produced by a lead update.
type Transition struct {
	Before          Lead
	After           Lead
	StatusChanged   bool
	AssigneeChanged bool
}

// NewLead builds a lead from caller fields, applying the same side effects
// an update would.
func NewLead(f Fields, createdBy uuid.UUID, now time.Time) (Lead, error) {
	lead := Lead{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(f.Name),
		Company:          f.Company,
		Phone:            f.Phone,
		Email:            f.Email,
		InstagramHandle:  f.InstagramHandle,
		WhatsAppNumber:   f.WhatsAppNumber,
		Website:          f.Website,
		LinkedInURL:      f.LinkedInURL,
		FacebookURL:      f.FacebookURL,
		Notes:            f.Notes,
		Source:           f.Source,
		Status:           f.Status,
		Priority:         f.Priority,
		NextFollowUpDate: f.NextFollowUpDate,
		LostReason:       f.LostReason,
		DealValue:        f.DealValue,
		CreatedBy:        &createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if lead.Status == "" {
		lead.Status = StatusNew
	}
	if lead.Priority == "" {
		lead.Priority = PriorityWarm
	}
	if f.AssignedTo != nil {
		assignee := *f.AssignedTo
		lead.AssignedTo = &assignee
		lead.AssignedAt = &now
	}
	if lead.Status == StatusConverted {
		lead.ConvertedAt = &now
	}
	if err := validate(lead); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// ApplyPatch computes the next state of current. The transition graph is
// permissive; the side effects are not:
//   - entering converted stamps converted_at once
//   - lost requires a lost reason
//   - a changed assignee stamps assigned_at (clearing it clears assigned_at)
//   - contact-triggering updates stamp last_contacted_at
func ApplyPatch(current Lead, p Patch, opts UpdateOptions) (Transition, error) {
	now := opts.Now
	next := current

	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	p.Company.apply(&next.Company)
	p.Phone.apply(&next.Phone)
	p.Email.apply(&next.Email)
	p.InstagramHandle.apply(&next.InstagramHandle)
	p.WhatsAppNumber.apply(&next.WhatsAppNumber)
	p.Website.apply(&next.Website)
	p.LinkedInURL.apply(&next.LinkedInURL)
	p.FacebookURL.apply(&next.FacebookURL)
	p.Notes.apply(&next.Notes)
	p.Source.apply(&next.Source)
	p.NextFollowUpDate.apply(&next.NextFollowUpDate)
	p.LostReason.apply(&next.LostReason)
	p.DealValue.apply(&next.DealValue)
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}

	t := Transition{Before: current}

	if p.AssignedTo.Set && !sameUUID(current.AssignedTo, p.AssignedTo.Value) {
		t.AssigneeChanged = true
		if p.AssignedTo.Value == nil {
			next.AssignedTo = nil
			next.AssignedAt = nil
		} else {
			assignee := *p.AssignedTo.Value
			next.AssignedTo = &assignee
			next.AssignedAt = &now
		}
	}

	if next.Status == StatusConverted && current.Status != StatusConverted && next.ConvertedAt == nil {
		next.ConvertedAt = &now
	}

	if opts.ContactTriggering {
		next.LastContactedAt = &now
	}

	if err := validate(next); err != nil {
		return Transition{}, err
	}

	t.StatusChanged = next.Status != current.Status
	next.UpdatedAt = now
	t.After = next
	return t, nil
}

func validate(l Lead) error {
	if l.Name == "" {
		return ErrNameRequired
	}
	if !l.Status.Valid() {
		return ErrInvalidStatus
	}
	if !l.Priority.Valid() {
		return ErrInvalidPriority
	}
	if l.Status == StatusLost && (l.LostReason == nil || strings.TrimSpace(*l.LostReason) == "") {
		return ErrLostReasonRequired
	}
	return nil
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
