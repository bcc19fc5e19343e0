package dto

import (
	"time"

	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/lifecycle"
	"github.com/fleetrelay/support-service/internal/sla"
)

// CreateTicketRequest payload for manual ticket creation.
type CreateTicketRequest struct {
	DriverID   *string               `json:"driver_id"`
	Summary    string                `json:"summary"`
	Category   *string               `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	SelfAssign bool                  `json:"self_assign"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	ScoreCategoryID string `json:"score_category_id"`
}

// HoldTicketRequest payload.
type HoldTicketRequest struct {
	Note string `json:"note"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Text           string `json:"text"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// SLAStatus is the display-ready SLA position of a ticket.
type SLAStatus struct {
	State   sla.State `json:"state"`
	Minutes int       `json:"minutes"`
}

// TicketSummary response row for list views.
type TicketSummary struct {
	ID                 string                `json:"id"`
	DisplayID          string                `json:"display_id"`
	Status             domain.TicketStatus   `json:"status"`
	Priority           domain.TicketPriority `json:"priority"`
	Source             domain.TicketSource   `json:"source"`
	Summary            *string               `json:"summary"`
	Category           *string               `json:"category"`
	AssignedOperatorID *string               `json:"assigned_operator_id"`
	SLA                SLAStatus             `json:"sla"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info for the detail view.
type TicketDetailResponse struct {
	TicketSummary
	DriverName       *string                 `json:"driver_name,omitempty"`
	AssignedOperator *string                 `json:"assigned_operator,omitempty"`
	HeldBy           *string                 `json:"held_by,omitempty"`
	HeldAt           *time.Time              `json:"held_at,omitempty"`
	HoldNote         *string                 `json:"hold_note,omitempty"`
	TotalHoldSeconds int64                   `json:"total_hold_seconds"`
	ClaimedAt        *time.Time              `json:"claimed_at,omitempty"`
	ResolvedAt       *time.Time              `json:"resolved_at,omitempty"`
	DismissedAt      *time.Time              `json:"dismissed_at,omitempty"`
	ScoreCategory    *ScoreCategoryResponse  `json:"score_category,omitempty"`
	AvailableActions []lifecycle.Action      `json:"available_actions"`
	Messages         []TicketMessageResponse `json:"messages"`
}

// TicketMessageResponse represents one thread message.
type TicketMessageResponse struct {
	ID             string                    `json:"id"`
	Direction      domain.MessageDirection   `json:"direction"`
	SenderType     domain.MessageSenderType  `json:"sender_type"`
	SenderName     string                    `json:"sender_name"`
	ContentType    domain.MessageContentType `json:"content_type"`
	ContentText    *string                   `json:"content_text"`
	MediaURL       *string                   `json:"media_url,omitempty"`
	IsInternalNote bool                      `json:"is_internal_note"`
	CreatedAt      time.Time                 `json:"created_at"`
}

// ScoreCategoryResponse metadata.
type ScoreCategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	IsActive bool   `json:"is_active"`
}
