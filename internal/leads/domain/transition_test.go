package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	t0 = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(2 * time.Hour)
)

func baseLead(t *testing.T) Lead {
	t.Helper()
	lead, err := NewLead(Fields{Name: " Priya Sharma "}, uuid.New(), t0)
	if err != nil {
		t.Fatalf("NewLead: %v", err)
	}
	return lead
}

func TestNewLeadDefaults(t *testing.T) {
	lead := baseLead(t)
	if lead.Name != "Priya Sharma" {
		t.Fatalf("name = %q", lead.Name)
	}
	if lead.Status != StatusNew || lead.Priority != PriorityWarm {
		t.Fatalf("defaults = %s/%s", lead.Status, lead.Priority)
	}
	if lead.AssignedAt != nil || lead.ConvertedAt != nil {
		t.Fatal("no timestamps expected on a fresh unassigned lead")
	}
}

func TestNewLeadValidation(t *testing.T) {
	if _, err := NewLead(Fields{Name: "  "}, uuid.New(), t0); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := NewLead(Fields{Name: "X", Status: StatusLost}, uuid.New(), t0); !errors.Is(err, ErrLostReasonRequired) {
		t.Fatalf("expected ErrLostReasonRequired, got %v", err)
	}
	if _, err := NewLead(Fields{Name: "X", Priority: "lukewarm"}, uuid.New(), t0); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	assignee := uuid.New()
	lead, err := NewLead(Fields{Name: "X", AssignedTo: &assignee, Status: StatusConverted}, uuid.New(), t0)
	if err != nil {
		t.Fatalf("NewLead: %v", err)
	}
	if lead.AssignedAt == nil || !lead.AssignedAt.Equal(t0) {
		t.Fatal("assigned_at should be stamped at creation")
	}
	if lead.ConvertedAt == nil {
		t.Fatal("converted_at should be stamped when created converted")
	}
}

func TestConvertedAtStampedOnce(t *testing.T) {
	lead := baseLead(t)
	converted := StatusConverted

	first, err := ApplyPatch(lead, Patch{Status: &converted}, UpdateOptions{Now: t0})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if !first.StatusChanged || first.After.ConvertedAt == nil || !first.After.ConvertedAt.Equal(t0) {
		t.Fatalf("converted_at not stamped: %+v", first.After.ConvertedAt)
	}

	second, err := ApplyPatch(first.After, Patch{Status: &converted}, UpdateOptions{Now: t1})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if second.StatusChanged {
		t.Fatal("re-saving converted is not a status change")
	}
	if !second.After.ConvertedAt.Equal(t0) {
		t.Fatalf("converted_at moved to %v", second.After.ConvertedAt)
	}
}

func TestLostRequiresReason(t *testing.T) {
	lead := baseLead(t)
	lost := StatusLost

	if _, err := ApplyPatch(lead, Patch{Status: &lost}, UpdateOptions{Now: t0}); !errors.Is(err, ErrLostReasonRequired) {
		t.Fatalf("expected ErrLostReasonRequired, got %v", err)
	}

	tr, err := ApplyPatch(lead, Patch{Status: &lost, LostReason: SetTo("went with competitor")}, UpdateOptions{Now: t0})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if tr.After.Status != StatusLost || *tr.After.LostReason != "went with competitor" {
		t.Fatalf("unexpected lead %+v", tr.After)
	}

	if _, err := ApplyPatch(tr.After, Patch{LostReason: Cleared[string]()}, UpdateOptions{Now: t1}); !errors.Is(err, ErrLostReasonRequired) {
		t.Fatalf("clearing the reason of a lost lead must fail, got %v", err)
	}
}

func TestAssignmentStampsAssignedAt(t *testing.T) {
	lead := baseLead(t)
	alice := uuid.New()
	bob := uuid.New()

	tr, err := ApplyPatch(lead, Patch{AssignedTo: SetTo(alice)}, UpdateOptions{Now: t0})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if !tr.AssigneeChanged || !tr.After.AssignedAt.Equal(t0) {
		t.Fatal("first assignment should stamp assigned_at")
	}

	same, _ := ApplyPatch(tr.After, Patch{AssignedTo: SetTo(alice)}, UpdateOptions{Now: t1})
	if same.AssigneeChanged || !same.After.AssignedAt.Equal(t0) {
		t.Fatal("re-assigning the same user must not touch assigned_at")
	}

	moved, _ := ApplyPatch(same.After, Patch{AssignedTo: SetTo(bob)}, UpdateOptions{Now: t1})
	if !moved.AssigneeChanged || !moved.After.AssignedAt.Equal(t1) || *moved.After.AssignedTo != bob {
		t.Fatal("reassignment should stamp assigned_at again")
	}

	cleared, _ := ApplyPatch(moved.After, Patch{AssignedTo: Cleared[uuid.UUID]()}, UpdateOptions{Now: t1})
	if cleared.After.AssignedTo != nil || cleared.After.AssignedAt != nil {
		t.Fatal("unassigning should clear assigned_at")
	}
}

func TestContactTriggeringStampsLastContacted(t *testing.T) {
	lead := baseLead(t)

	plain, _ := ApplyPatch(lead, Patch{}, UpdateOptions{Now: t0})
	if plain.After.LastContactedAt != nil {
		t.Fatal("plain update must not touch last_contacted_at")
	}

	touched, _ := ApplyPatch(lead, Patch{}, UpdateOptions{Now: t1, ContactTriggering: true})
	if touched.After.LastContactedAt == nil || !touched.After.LastContactedAt.Equal(t1) {
		t.Fatal("contact-triggering update should stamp last_contacted_at")
	}
}

func TestApplyPatchDoesNotMutateInput(t *testing.T) {
	lead := baseLead(t)
	contacted := StatusContacted
	_, _ = ApplyPatch(lead, Patch{Status: &contacted, Email: SetTo("x@y.z")}, UpdateOptions{Now: t1})
	if lead.Status != StatusNew || lead.Email != nil {
		t.Fatal("input lead was mutated")
	}
}
