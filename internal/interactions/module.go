// Package interactions provides the contact history bounded context module.
package interactions

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/interactions/handler"
	"leadflow_backend/internal/interactions/repository"
	"leadflow_backend/internal/interactions/service"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, eventBus events.Bus, clk clock.Clock, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), eventBus, clk, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "interactions"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"), ctx.Protected.Group("/interactions"))
}

var _ apphttp.Module = (*Module)(nil)
