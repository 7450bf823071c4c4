package exports

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadflow_backend/platform/clock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeSource struct {
	from, to time.Time
	stages   []string
	limit    int
	deals    []ClosedDeal
}

func (f *fakeSource) ListClosedDeals(_ context.Context, from, to time.Time, stages []string, limit int) ([]ClosedDeal, error) {
	f.from, f.to, f.stages, f.limit = from, to, stages, limit
	return f.deals, nil
}

func TestParseDateRange(t *testing.T) {
	today := clock.Date(2024, 6, 10)

	from, to, err := parseDateRange("", "", today)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if !from.Equal(clock.Date(2024, 3, 12)) || !to.Equal(today) {
		t.Fatalf("unexpected default range %v..%v", from, to)
	}

	if _, _, err := parseDateRange("2024-06-10", "2024-06-01", today); err == nil {
		t.Fatalf("expected inverted range to fail")
	}
	if _, _, err := parseDateRange("June", "", today); err == nil {
		t.Fatalf("expected bad date to fail")
	}
}

func TestParseStagesAndLimit(t *testing.T) {
	if stages, _ := parseStages(""); len(stages) != 2 {
		t.Fatalf("expected won and lost by default, got %v", stages)
	}
	if _, err := parseStages("proposal"); err == nil {
		t.Fatalf("expected open stage to be rejected")
	}
	if got := parseLimit("999999"); got != maxLimit {
		t.Fatalf("expected cap %d, got %d", maxLimit, got)
	}
	if got := parseLimit("-1"); got != defaultLimit {
		t.Fatalf("expected default %d, got %d", defaultLimit, got)
	}
}

func TestExportClosedDealsCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lead, reason := "Acme", "budget"
	source := &fakeSource{deals: []ClosedDeal{
		{DealID: uuid.New(), Title: "Website", Stage: "won", ClosedDate: clock.Date(2024, 6, 10), DealValue: 1500, Currency: "INR", LeadName: &lead},
		{DealID: uuid.New(), Title: "App, phase 2", Stage: "lost", ClosedDate: clock.Date(2024, 6, 9), Currency: "INR", LostReason: &reason},
	}}
	h := NewHandler(source, clock.NewFixed(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)), time.UTC)

	engine := gin.New()
	engine.GET("/deals.csv", h.ExportClosedDealsCSV)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deals.csv?stage=closed&fromDate=2024-06-01", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !source.from.Equal(clock.Date(2024, 6, 1)) || !source.to.Equal(clock.Date(2024, 6, 10)) {
		t.Fatalf("unexpected range passed to source: %v..%v", source.from, source.to)
	}

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and two rows, got %d", len(records))
	}
	if records[1][4] != "1500.00" || records[1][6] != "Acme" {
		t.Fatalf("unexpected won row %v", records[1])
	}
	if records[2][1] != "App, phase 2" || records[2][9] != "budget" {
		t.Fatalf("unexpected lost row %v", records[2])
	}
}
