package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/jsontype"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeLeadRepo struct {
	mu             sync.Mutex
	leads          map[uuid.UUID]domain.Lead
	duplicateCalls int
	skipDupLookup  bool
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[uuid.UUID]domain.Lead)}
}

func (r *fakeLeadRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (r *fakeLeadRepo) List(_ context.Context, params repository.ListParams) ([]domain.Lead, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if params.Status != nil && string(lead.Status) != *params.Status {
			continue
		}
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (r *fakeLeadRepo) conflicting(ids domain.Identifiers, excludeID *uuid.UUID) (domain.Lead, domain.Field, bool) {
	for _, lead := range r.leads {
		if excludeID != nil && lead.ID == *excludeID {
			continue
		}
		if field, ok := domain.MatchedField(lead.Identifiers(), ids); ok {
			return lead, field, true
		}
	}
	return domain.Lead{}, "", false
}

func (r *fakeLeadRepo) Create(_ context.Context, lead domain.Lead) (domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, field, ok := r.conflicting(lead.Identifiers(), nil); ok {
		return domain.Lead{}, &repository.DuplicateKeyError{Field: field}
	}
	r.leads[lead.ID] = lead
	return lead, nil
}

func (r *fakeLeadRepo) Update(_ context.Context, t domain.Transition) (domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[t.After.ID]; !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	if _, field, ok := r.conflicting(t.After.Identifiers(), &t.After.ID); ok {
		return domain.Lead{}, &repository.DuplicateKeyError{Field: field}
	}
	r.leads[t.After.ID] = t.After
	return t.After, nil
}

func (r *fakeLeadRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) BulkDelete(_ context.Context, ids []uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := r.leads[id]; ok {
			delete(r.leads, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeLeadRepo) FindDuplicate(_ context.Context, ids domain.Identifiers, excludeID *uuid.UUID) (*domain.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duplicateCalls++
	if r.skipDupLookup {
		return nil, nil
	}
	lead, _, ok := r.conflicting(ids, excludeID)
	if !ok {
		return nil, nil
	}
	return &domain.Summary{ID: lead.ID, Name: lead.Name, Status: lead.Status, Company: lead.Company, Identifiers: lead.Identifiers()}, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventName())
	}
	return out
}

var testNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

func newTestService() (*Service, *fakeLeadRepo, *recordingBus, *clock.Fixed) {
	repo := newFakeLeadRepo()
	bus := &recordingBus{}
	clk := clock.NewFixed(testNow)
	svc := New(repo, bus, clk, domain.NewNormalizer("IN"), logger.Discard())
	return svc, repo, bus, clk
}

func strPtr(s string) *string { return &s }

func caller() identity.Identity {
	return identity.New(uuid.New(), []string{"member"})
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	me := caller()

	first, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "Priya Sharma", Phone: strPtr("9990001111")})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = svc.Create(ctx, me, transport.CreateLeadRequest{
		Name:  "PRIYA S",
		Phone: strPtr("  9990001111 "),
		Email: strPtr("Priya@Example.com"),
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	details, ok := appErr.Details.(transport.ConflictDetails)
	if !ok {
		t.Fatalf("unexpected details %T", appErr.Details)
	}
	if details.MatchedField != "phone number" {
		t.Fatalf("matchedField = %q", details.MatchedField)
	}
	if details.ExistingLeadID != first.ID || details.ExistingLeadName != "Priya Sharma" {
		t.Fatalf("unexpected existing lead %+v", details)
	}
}

func TestCreatePaddedEmailConflictsAfterNormalization(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	me := caller()
	val := validator.New()

	first := transport.CreateLeadRequest{Name: "Priya", Phone: strPtr("9990001111"), Email: strPtr("priya@example.com")}
	if _, err := svc.Create(ctx, me, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	padded := transport.CreateLeadRequest{Name: "Priya", Email: strPtr("  Priya@Example.com ")}
	if err := val.Struct(padded); err != nil {
		t.Fatalf("padded email rejected before normalization: %v", err)
	}
	_, err := svc.Create(ctx, me, padded)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	if details, ok := appErr.Details.(transport.ConflictDetails); !ok || details.MatchedField != "email" {
		t.Fatalf("unexpected details %+v", appErr.Details)
	}

	_, err = svc.Create(ctx, me, transport.CreateLeadRequest{Name: "Bad", Email: strPtr(" not-an-email ")})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateMapsStoreUniqueViolation(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	me := caller()

	if _, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "A", Email: strPtr("a@example.com")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Simulate the race where the detector saw nothing but the index fires.
	repo.skipDupLookup = true
	_, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "B", Email: strPtr("A@example.com ")})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict from unique index, got %v", err)
	}
}

func TestCheckDuplicateWithoutIdentifiersSkipsQuery(t *testing.T) {
	svc, repo, _, _ := newTestService()

	report, err := svc.CheckDuplicate(context.Background(), caller(), transport.CheckDuplicateRequest{Email: "   "})
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if report.IsDuplicate {
		t.Fatal("expected no duplicate")
	}
	if repo.duplicateCalls != 0 {
		t.Fatalf("expected no store query, got %d", repo.duplicateCalls)
	}
}

func TestCheckDuplicateExcludesSelfAndNormalizes(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	me := caller()

	lead, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "Priya", InstagramHandle: strPtr("@priya.designs")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	report, err := svc.CheckDuplicate(ctx, me, transport.CheckDuplicateRequest{InstagramHandle: " priya.designs"})
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if !report.IsDuplicate || report.MatchedField != "Instagram handle" || report.ExistingLead.ID != lead.ID {
		t.Fatalf("unexpected report %+v", report)
	}

	self, err := svc.CheckDuplicate(ctx, me, transport.CheckDuplicateRequest{InstagramHandle: "priya.designs", ExcludeID: &lead.ID})
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if self.IsDuplicate {
		t.Fatal("a lead must not conflict with itself")
	}
}

func TestUpdateIdentifierCollision(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	me := caller()

	if _, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "A", Email: strPtr("a@example.com")}); err != nil {
		t.Fatalf("create A: %v", err)
	}
	b, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "B", Email: strPtr("b@example.com")})
	if err != nil {
		t.Fatalf("create B: %v", err)
	}

	_, err = svc.Update(ctx, me, b.ID, transport.UpdateLeadRequest{
		Email: jsontype.Optional[string]{Value: strPtr("A@EXAMPLE.COM"), Set: true},
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateStatusSideEffectsAndEvents(t *testing.T) {
	svc, _, bus, clk := newTestService()
	ctx := context.Background()
	me := caller()
	assignee := uuid.New()

	lead, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "Priya"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clk.Advance(time.Hour)
	converted := "converted"
	updated, err := svc.Update(ctx, me, lead.ID, transport.UpdateLeadRequest{
		Status:            &converted,
		AssignedTo:        jsontype.Optional[uuid.UUID]{Value: &assignee, Set: true},
		ContactTriggering: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	later := testNow.Add(time.Hour)
	if updated.ConvertedAt == nil || !updated.ConvertedAt.Equal(later) {
		t.Fatalf("converted_at = %v", updated.ConvertedAt)
	}
	if updated.AssignedAt == nil || !updated.AssignedAt.Equal(later) {
		t.Fatalf("assigned_at = %v", updated.AssignedAt)
	}
	if updated.LastContactedAt == nil || !updated.LastContactedAt.Equal(later) {
		t.Fatalf("last_contacted_at = %v", updated.LastContactedAt)
	}

	want := []string{"leads.lead.created", "leads.lead.status_changed", "leads.lead.assigned"}
	got := bus.names()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestUpdateLostWithoutReasonIsValidationError(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	me := caller()

	lead, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "Priya"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	lost := "lost"
	_, err = svc.Update(ctx, me, lead.ID, transport.UpdateLeadRequest{Status: &lost})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOperationsRequireIdentity(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Create(context.Background(), identity.Anonymous(), transport.CreateLeadRequest{Name: "X"})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	me := caller()

	lead, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "Priya"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, me, lead.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, me, lead.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetByID(ctx, me, lead.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyDealEffectIsIdempotentForConversion(t *testing.T) {
	svc, _, _, clk := newTestService()
	ctx := context.Background()
	me := caller()

	lead, err := svc.Create(ctx, me, transport.CreateLeadRequest{Name: "Priya"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	converted := domain.StatusConverted

	first, err := svc.ApplyDealEffect(ctx, me.UserID(), lead.ID, domain.Patch{Status: &converted})
	if err != nil {
		t.Fatalf("first effect: %v", err)
	}
	clk.Advance(24 * time.Hour)
	second, err := svc.ApplyDealEffect(ctx, me.UserID(), lead.ID, domain.Patch{Status: &converted})
	if err != nil {
		t.Fatalf("second effect: %v", err)
	}
	if !second.ConvertedAt.Equal(*first.ConvertedAt) {
		t.Fatalf("converted_at moved from %v to %v", first.ConvertedAt, second.ConvertedAt)
	}
}
