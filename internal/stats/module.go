// Package stats provides the dashboard aggregates module.
package stats

import (
	"time"

	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/stats/handler"
	"leadflow_backend/internal/stats/repository"
	"leadflow_backend/internal/stats/service"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, clk clock.Clock, location *time.Location, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: handler.New(service.New(repository.New(pool), clk, location, log), val)}
}

func (m *Module) Name() string {
	return "stats"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/stats"))
}

var _ apphttp.Module = (*Module)(nil)
