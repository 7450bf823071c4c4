// Package deals provides the deal pipeline bounded context module.
package deals

import (
	"leadflow_backend/internal/deals/handler"
	"leadflow_backend/internal/deals/repository"
	"leadflow_backend/internal/deals/service"
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the deals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the deals module. leads receives the lead side of every
// deal write.
func NewModule(pool *pgxpool.Pool, leads service.LeadWriter, eventBus events.Bus, clk clock.Clock, val *validator.Validator, cfg config.EngineConfig, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), leads, eventBus, clk, cfg.GetLocation(), cfg.GetDefaultCurrency(), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "deals"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/deals"))
}

var _ apphttp.Module = (*Module)(nil)
