// Package tasks provides the follow-up task bounded context module.
package tasks

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/tasks/handler"
	"leadflow_backend/internal/tasks/repository"
	"leadflow_backend/internal/tasks/service"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, leads service.LeadChecker, eventBus events.Bus, clk clock.Clock, val *validator.Validator, cfg config.EngineConfig, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), leads, eventBus, clk, cfg.GetLocation(), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "tasks"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/tasks"))
}

var _ apphttp.Module = (*Module)(nil)
