// Package service exposes user reads to members and user management to
// administrators.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/users/repository"
	"leadflow_backend/internal/users/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

const msgUserNotFound = "user not found"

type Service struct {
	repo  repository.UserRepository
	clock clock.Clock
	log   *logger.Logger
}

func New(repo repository.UserRepository, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{repo: repo, clock: clk, log: log}
}

// ListUsers is admin-only.
func (s *Service) ListUsers(ctx context.Context, id identity.Identity, req transport.ListUsersRequest) (transport.UserListResponse, error) {
	if err := identity.RequireRole(id, identity.RoleAdmin); err != nil {
		return transport.UserListResponse{}, err
	}
	users, err := s.repo.List(ctx, req.IncludeInactive)
	if err != nil {
		return transport.UserListResponse{}, err
	}
	items := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toResponse(user))
	}
	return transport.UserListResponse{Items: items}, nil
}

// GetUser returns any user to an authenticated caller.
func (s *Service) GetUser(ctx context.Context, id identity.Identity, userID uuid.UUID) (transport.UserResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.UserResponse{}, err
	}
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toResponse(user), nil
}

// UpdateAccess changes a user's role or active flag. Admins cannot demote
// or deactivate themselves.
func (s *Service) UpdateAccess(ctx context.Context, id identity.Identity, userID uuid.UUID, req transport.UpdateUserAccessRequest) (transport.UserResponse, error) {
	if err := identity.RequireRole(id, identity.RoleAdmin); err != nil {
		return transport.UserResponse{}, err
	}
	if req.Role == nil && req.IsActive == nil {
		return transport.UserResponse{}, apperr.Validation("nothing to update")
	}
	if userID == id.UserID() {
		if (req.Role != nil && *req.Role != repository.RoleAdmin) || (req.IsActive != nil && !*req.IsActive) {
			return transport.UserResponse{}, apperr.Validation("administrators cannot demote or deactivate themselves")
		}
	}

	user, err := s.repo.UpdateAccess(ctx, userID, req.Role, req.IsActive, s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return transport.UserResponse{}, err
	}
	s.log.WithContext(ctx).Info("user access updated", "target_user_id", userID.String(), "role", user.Role, "is_active", user.IsActive)
	return toResponse(user), nil
}

func toResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
