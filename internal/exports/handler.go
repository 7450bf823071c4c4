package exports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 5000
	maxLimit     = 50000
	defaultDays  = 90
)

var csvHeaders = []string{
	"Deal ID", "Title", "Stage", "Closed Date", "Deal Value", "Currency",
	"Lead", "Company", "Owner", "Lost Reason",
}

type Handler struct {
	source   DealSource
	clock    clock.Clock
	location *time.Location
}

func NewHandler(source DealSource, clk clock.Clock, location *time.Location) *Handler {
	return &Handler{source: source, clock: clk, location: location}
}

// ExportClosedDealsCSV streams won and lost deals as CSV.
// GET /api/v1/admin/exports/deals.csv?fromDate=&toDate=&stage=won|lost&limit=
func (h *Handler) ExportClosedDealsCSV(c *gin.Context) {
	today := clock.Today(h.clock.Now(), h.location)
	from, to, err := parseDateRange(c.Query("fromDate"), c.Query("toDate"), today)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	stages, err := parseStages(c.Query("stage"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid stage", err.Error())
		return
	}

	deals, err := h.source.ListClosedDeals(c.Request.Context(), from, to, stages, parseLimit(c.Query("limit")))
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=deals-%s-%s.csv", from.Format(dateLayout), to.Format(dateLayout)))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(csvHeaders); err != nil {
		return
	}
	for _, deal := range deals {
		if err := writer.Write(dealRecord(deal)); err != nil {
			return
		}
	}
	writer.Flush()
}

func dealRecord(d ClosedDeal) []string {
	return []string{
		d.DealID.String(),
		d.Title,
		d.Stage,
		d.ClosedDate.Format(dateLayout),
		strconv.FormatFloat(d.DealValue, 'f', 2, 64),
		d.Currency,
		deref(d.LeadName),
		deref(d.LeadCompany),
		deref(d.OwnerEmail),
		deref(d.LostReason),
	}
}

// parseDateRange defaults to the defaultDays days ending today. Both ends
// are inclusive calendar dates.
func parseDateRange(fromStr, toStr string, today time.Time) (time.Time, time.Time, error) {
	from := today.AddDate(0, 0, -defaultDays)
	to := today

	if s := strings.TrimSpace(fromStr); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if s := strings.TrimSpace(toStr); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("toDate before fromDate")
	}
	return from, to, nil
}

func parseStages(value string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "closed":
		return []string{"won", "lost"}, nil
	case "won":
		return []string{"won"}, nil
	case "lost":
		return []string{"lost"}, nil
	default:
		return nil, fmt.Errorf("stage must be won, lost or closed")
	}
}

func parseLimit(raw string) int {
	limit := defaultLimit
	if raw = strings.TrimSpace(raw); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit > maxLimit {
		return maxLimit
	}
	if limit < 1 {
		return defaultLimit
	}
	return limit
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
