package domain

import "time"

// UserRole enumerates dashboard roles.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
)

// UserStatus enumerates account lifecycle states.
type UserStatus string

const (
	UserStatusPendingApproval UserStatus = "pending_approval"
	UserStatusActive          UserStatus = "active"
	UserStatusRejected        UserStatus = "rejected"
	UserStatusDeactivated     UserStatus = "deactivated"
)

// User is a dashboard operator or admin account.
type User struct {
	ID           string
	Email        string
	FullName     string
	Role         UserRole
	Status       UserStatus
	TeamID       *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
