package events

import (
	"time"

	"github.com/fleetrelay/support-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketClaimed      EventType = "ticket_claimed"
	EventTicketReleased     EventType = "ticket_released"
	EventTicketResolved     EventType = "ticket_resolved"
	EventTicketDismissed    EventType = "ticket_dismissed"
	EventTicketHeld         EventType = "ticket_held"
	EventTicketMessageAdded EventType = "ticket_message_added"
	EventSettingsUpdated    EventType = "settings_updated"
)

// Actor encapsulates who triggered an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Source       domain.TicketSource   `json:"source"`
	Priority     domain.TicketPriority `json:"priority"`
	SelfAssigned bool                  `json:"self_assigned"`
}

// TicketClaimedPayload payload.
type TicketClaimedPayload struct {
	FromStatus         domain.TicketStatus `json:"from_status"`
	HoldSecondsAccrued int64               `json:"hold_seconds_accrued,omitempty"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	ScoreCategoryID string `json:"score_category_id"`
	Points          int    `json:"points"`
	OperatorID      string `json:"operator_id"`
}

// TicketHeldPayload payload.
type TicketHeldPayload struct {
	HoldNote string `json:"hold_note"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID      string `json:"message_id"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// SettingsUpdatedPayload payload.
type SettingsUpdatedPayload struct {
	Keys []string `json:"keys"`
}
