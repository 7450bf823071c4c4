package transport

import (
	"time"

	"github.com/google/uuid"
)

type ListUsersRequest struct {
	IncludeInactive bool `form:"includeInactive"`
}

type UpdateUserAccessRequest struct {
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
}
