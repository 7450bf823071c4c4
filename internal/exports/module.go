// Package exports provides admin CSV exports of closed deals.
package exports

import (
	"time"

	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/platform/clock"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the exports module implementing http.Module.
type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, clk clock.Clock, location *time.Location) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), clk, location)}
}

func (m *Module) Name() string {
	return "exports"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/exports/deals.csv", m.handler.ExportClosedDealsCSV)
}

var _ apphttp.Module = (*Module)(nil)
