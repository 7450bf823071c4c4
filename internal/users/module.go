// Package users provides user reads and admin-only user management.
package users

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/users/handler"
	"leadflow_backend/internal/users/repository"
	"leadflow_backend/internal/users/service"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, clk clock.Clock, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), clk, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "users"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/users/:id", m.handler.GetByID)

	// Admin routes
	ctx.Admin.GET("/users", m.handler.List)
	ctx.Admin.PATCH("/users/:id", m.handler.UpdateAccess)
}

var _ apphttp.Module = (*Module)(nil)
