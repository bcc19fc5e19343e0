package domain

import (
	"strings"
	"time"
)

// Driver is a fleet driver known from the chat platform.
type Driver struct {
	ID             string
	TelegramUserID int64
	FirstName      string
	LastName       *string
	Username       *string
	FirstSeenAt    time.Time
	LastSeenAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName joins the driver's first and last names.
func (d Driver) FullName() string {
	parts := []string{d.FirstName}
	if d.LastName != nil && *d.LastName != "" {
		parts = append(parts, *d.LastName)
	}
	return strings.Join(parts, " ")
}
