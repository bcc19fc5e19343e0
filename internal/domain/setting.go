package domain

import "time"

// Setting is a keyed configuration value stored as text.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
