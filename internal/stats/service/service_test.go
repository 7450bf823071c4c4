package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/stats/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

// fakeReader answers windowed queries depending on whether the window
// ends at now (current) or earlier (previous).
type fakeReader struct {
	counts   map[string]int
	pipeline float64
	fail     error
}

func (f fakeReader) current(to time.Time) bool { return to.Equal(now) }

func (f fakeReader) CountLeadsByStatus(context.Context) (map[string]int, error) {
	return f.counts, f.fail
}

func (f fakeReader) PipelineValue(context.Context) (float64, error) {
	return f.pipeline, nil
}

func (f fakeReader) CountLeadsCreated(_ context.Context, _, to time.Time) (int, error) {
	if f.current(to) {
		return 15, nil
	}
	return 10, nil
}

func (f fakeReader) CountLeadsConverted(_ context.Context, _, to time.Time) (int, error) {
	if f.current(to) {
		return 3, nil
	}
	return 0, nil
}

// SumWonDealValue receives calendar dates, so the current window is the one
// whose exclusive end is the day after now.
func (f fakeReader) SumWonDealValue(_ context.Context, _, toDate time.Time) (float64, error) {
	if toDate.After(now) {
		return 50000, nil
	}
	return 80000, nil
}

func (f fakeReader) CountInteractions(_ context.Context, _, to time.Time) (int, error) {
	if f.current(to) {
		return 7, nil
	}
	return 8, nil
}

func TestGetStatsWeek(t *testing.T) {
	reader := fakeReader{
		counts:   map[string]int{"new": 2, "contacted": 3, "converted": 5, "lost": 10},
		pipeline: 125000,
	}
	svc := New(reader, clock.NewFixed(now), time.UTC, logger.Discard())

	stats, err := svc.GetStats(context.Background(), identity.New(uuid.New(), nil), transport.StatsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Period != "week" {
		t.Fatalf("period = %q", stats.Period)
	}
	if stats.NewLeads.Trend != 50 || stats.Conversions.Trend != 0 || stats.WonDealValue.Trend != -37 || stats.Interactions.Trend != -12 {
		t.Fatalf("unexpected trends %+v", stats)
	}
	if stats.PipelineValue != 125000 {
		t.Fatalf("pipeline = %v", stats.PipelineValue)
	}
	if stats.ConversionRate != 50 {
		t.Fatalf("conversion rate = %d, want 50", stats.ConversionRate)
	}
}

func TestGetStatsRejectsUnknownPeriod(t *testing.T) {
	svc := New(fakeReader{}, clock.NewFixed(now), time.UTC, logger.Discard())
	_, err := svc.GetStats(context.Background(), identity.New(uuid.New(), nil), transport.StatsRequest{Period: "year"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetStatsPropagatesQueryFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := New(fakeReader{fail: boom}, clock.NewFixed(now), time.UTC, logger.Discard())
	_, err := svc.GetStats(context.Background(), identity.New(uuid.New(), nil), transport.StatsRequest{Period: "month"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestGetFunnelCountsLostInTotal(t *testing.T) {
	svc := New(fakeReader{counts: map[string]int{"new": 1, "lost": 3}}, clock.NewFixed(now), time.UTC, logger.Discard())
	funnel, err := svc.GetFunnel(context.Background(), identity.New(uuid.New(), nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if funnel.TotalLeads != 4 || funnel.Stages[0].Percentage != 25 {
		t.Fatalf("unexpected funnel %+v", funnel)
	}
}
