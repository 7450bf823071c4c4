// Package identity carries the authenticated caller into engine operations.
// Every service method takes an Identity explicitly; nothing reads it from
// ambient request state.
package identity

import (
	"slices"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// RoleAdmin is the role allowed to manage users.
const RoleAdmin = "admin"

// Identity represents the authenticated user's identity.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole checks if the user has a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
	// IsAdmin reports whether the caller has RoleAdmin.
	IsAdmin() bool
}

type principal struct {
	userID        uuid.UUID
	roles         []string
	authenticated bool
}

// New returns an authenticated identity.
func New(userID uuid.UUID, roles []string) Identity {
	return &principal{userID: userID, roles: roles, authenticated: true}
}

// Anonymous returns an unauthenticated identity.
func Anonymous() Identity {
	return &principal{}
}

func (p *principal) UserID() uuid.UUID        { return p.userID }
func (p *principal) Roles() []string          { return p.roles }
func (p *principal) HasRole(role string) bool { return slices.Contains(p.roles, role) }
func (p *principal) IsAuthenticated() bool    { return p.authenticated && p.userID != uuid.Nil }
func (p *principal) IsAdmin() bool            { return p.HasRole(RoleAdmin) }

// Require fails with Unauthorized when there is no authenticated caller.
func Require(id Identity) error {
	if id == nil || !id.IsAuthenticated() {
		return apperr.Unauthorized("authentication required")
	}
	return nil
}

// RequireRole fails with Unauthorized or Forbidden.
func RequireRole(id Identity, role string) error {
	if err := Require(id); err != nil {
		return err
	}
	if !id.HasRole(role) {
		return apperr.Forbidden("insufficient permissions")
	}
	return nil
}
