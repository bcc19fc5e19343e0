package dto

import "time"

// DriverResponse is one roster row on the drivers page.
type DriverResponse struct {
	ID             string    `json:"id"`
	TelegramUserID int64     `json:"telegram_user_id"`
	FirstName      string    `json:"first_name"`
	LastName       *string   `json:"last_name,omitempty"`
	Username       *string   `json:"username,omitempty"`
	FullName       string    `json:"full_name"`
	FirstSeenAt    time.Time `json:"first_seen_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}
