package dto

import (
	"time"

	"github.com/fleetrelay/support-service/internal/domain"
)

// RegisterRequest payload for operator sign-up.
type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UpdateUserStatusRequest payload for admin approval flows.
type UpdateUserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	FullName  string            `json:"full_name"`
	Role      domain.UserRole   `json:"role"`
	Status    domain.UserStatus `json:"status"`
	TeamID    *string           `json:"team_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
