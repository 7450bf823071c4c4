package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/interactions/domain"
	"leadflow_backend/internal/interactions/repository"
	"leadflow_backend/internal/interactions/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLead struct {
	status          string
	lastContactedAt *time.Time
	followUpCount   int
}

// fakeStore mimics the transactional recorder: the interaction and the
// lead counters change together or not at all.
type fakeStore struct {
	mu           sync.Mutex
	leads        map[uuid.UUID]*fakeLead
	interactions []domain.Interaction
}

func (s *fakeStore) Record(_ context.Context, interaction domain.Interaction) (domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[interaction.LeadID]
	if !ok {
		return domain.Interaction{}, repository.ErrLeadNotFound
	}
	interaction.StatusBefore = lead.status
	interaction.StatusAfter = lead.status
	at := interaction.CreatedAt
	lead.lastContactedAt = &at
	lead.followUpCount++
	s.interactions = append(s.interactions, interaction)
	return interaction, nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.interactions {
		if i.ID == id {
			return i, nil
		}
	}
	return domain.Interaction{}, repository.ErrNotFound
}

func (s *fakeStore) ListByLead(_ context.Context, leadID uuid.UUID, limit, offset int) ([]domain.Interaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Interaction
	for _, i := range s.interactions {
		if i.LeadID == leadID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	total := len(out)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
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

func TestRecordInteractionTouchesLead(t *testing.T) {
	leadID := uuid.New()
	store := &fakeStore{leads: map[uuid.UUID]*fakeLead{leadID: {status: "contacted"}}}
	bus := &recordingBus{}
	clk := clock.NewFixed(time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC))
	svc := New(store, bus, clk, logger.Discard())
	ctx := context.Background()
	actor := identity.New(uuid.New(), nil)

	first, err := svc.RecordInteraction(ctx, actor, leadID, transport.RecordInteractionRequest{Type: "call", Summary: "Intro call"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.StatusBefore != "contacted" || first.StatusAfter != "contacted" {
		t.Fatalf("unexpected statuses %+v", first)
	}
	if first.Attachments == nil {
		t.Fatalf("attachments must serialize as an empty list")
	}

	clk.Advance(time.Hour)
	if _, err := svc.RecordInteraction(ctx, actor, leadID, transport.RecordInteractionRequest{Type: "whatsapp", Summary: "Sent quote"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	lead := store.leads[leadID]
	if lead.followUpCount != 2 {
		t.Fatalf("follow-up count = %d, want 2", lead.followUpCount)
	}
	if !lead.lastContactedAt.Equal(clk.Now()) {
		t.Fatalf("last contacted = %v, want %v", lead.lastContactedAt, clk.Now())
	}

	list, err := svc.ListInteractions(ctx, actor, leadID, transport.ListInteractionsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 2 || list.Items[0].Type != "whatsapp" {
		t.Fatalf("expected newest first, got %+v", list.Items)
	}

	if len(bus.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(bus.events))
	}
	if _, ok := bus.events[0].(events.InteractionRecorded); !ok {
		t.Fatalf("unexpected event %T", bus.events[0])
	}
}

func TestRecordInteractionUnknownLead(t *testing.T) {
	store := &fakeStore{leads: map[uuid.UUID]*fakeLead{}}
	svc := New(store, &recordingBus{}, clock.System{}, logger.Discard())

	_, err := svc.RecordInteraction(context.Background(), identity.New(uuid.New(), nil), uuid.New(),
		transport.RecordInteractionRequest{Type: "note", Summary: "x"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordInteractionInvalidLeavesLeadUntouched(t *testing.T) {
	leadID := uuid.New()
	store := &fakeStore{leads: map[uuid.UUID]*fakeLead{leadID: {status: "new"}}}
	svc := New(store, &recordingBus{}, clock.System{}, logger.Discard())

	_, err := svc.RecordInteraction(context.Background(), identity.New(uuid.New(), nil), leadID,
		transport.RecordInteractionRequest{Type: "call", Summary: "   "})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.leads[leadID].followUpCount != 0 {
		t.Fatalf("invalid interaction must not touch the lead")
	}
}
