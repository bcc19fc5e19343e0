package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusOnHold     TicketStatus = "on_hold"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusDismissed  TicketStatus = "dismissed"
)

// IsTerminal reports whether no further transitions are defined from the status.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusDismissed
}

// TicketPriority enumerates SLA urgency. Fixed at creation.
type TicketPriority string

const (
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketSource describes the origin channel of a ticket.
type TicketSource string

const (
	TicketSourceBusinessDM TicketSource = "business_dm"
	TicketSourceGroup      TicketSource = "group"
	TicketSourceManual     TicketSource = "manual"
)

// Ticket is the aggregate for driver support requests.
type Ticket struct {
	ID                 string
	DisplayID          string
	DriverID           *string
	Source             TicketSource
	SourceName         *string
	Summary            *string
	Category           *string
	Location           *string
	Urgency            *int
	Status             TicketStatus
	Priority           TicketPriority
	AssignedOperatorID *string
	ClaimedAt          *time.Time
	ResolvedAt         *time.Time
	DismissedAt        *time.Time
	HeldAt             *time.Time
	HeldByID           *string
	HoldNote           *string
	TotalHoldSeconds   int64
	ScoreCategoryID    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
