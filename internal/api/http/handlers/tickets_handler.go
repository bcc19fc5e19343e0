package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fleetrelay/support-service/internal/api/dto"
	"github.com/fleetrelay/support-service/internal/auth"
	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/repository"
	"github.com/fleetrelay/support-service/internal/service"
	"github.com/fleetrelay/support-service/internal/sla"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// TicketsHandler manages the ticket queue and lifecycle endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	settings *service.SettingsService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, settings *service.SettingsService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, settings: settings}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		DriverID:   req.DriverID,
		Summary:    req.Summary,
		Category:   req.Category,
		Priority:   req.Priority,
		SelfAssign: req.SelfAssign,
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), principal.User, input)
	if err != nil {
		return err
	}
	policy, err := h.settings.LoadSLAPolicy(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket, policy, time.Now())})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	policy, err := h.settings.LoadSLAPolicy(c.UserContext())
	if err != nil {
		return err
	}
	now := time.Now()
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i], policy, now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	policy, err := h.settings.LoadSLAPolicy(c.UserContext())
	if err != nil {
		return err
	}
	detail, err := h.tickets.GetTicketDetail(c.UserContext(), principal.User, c.Params("id"), policy, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// Claim POST /tickets/:id/claim.
func (h *TicketsHandler) Claim(c *fiber.Ctx) error {
	return h.transition(c, func(c *fiber.Ctx, actor *domain.User) (*domain.Ticket, error) {
		return h.tickets.Claim(c.UserContext(), actor, c.Params("id"))
	})
}

// Release POST /tickets/:id/release.
func (h *TicketsHandler) Release(c *fiber.Ctx) error {
	return h.transition(c, func(c *fiber.Ctx, actor *domain.User) (*domain.Ticket, error) {
		return h.tickets.Release(c.UserContext(), actor, c.Params("id"))
	})
}

// Resolve POST /tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(c *fiber.Ctx, actor *domain.User) (*domain.Ticket, error) {
		return h.tickets.Resolve(c.UserContext(), actor, c.Params("id"), req.ScoreCategoryID)
	})
}

// Dismiss POST /tickets/:id/dismiss.
func (h *TicketsHandler) Dismiss(c *fiber.Ctx) error {
	return h.transition(c, func(c *fiber.Ctx, actor *domain.User) (*domain.Ticket, error) {
		return h.tickets.Dismiss(c.UserContext(), actor, c.Params("id"))
	})
}

// Hold POST /tickets/:id/hold.
func (h *TicketsHandler) Hold(c *fiber.Ctx) error {
	var req dto.HoldTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(c *fiber.Ctx, actor *domain.User) (*domain.Ticket, error) {
		return h.tickets.Hold(c.UserContext(), actor, c.Params("id"), req.Note)
	})
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.tickets.AddMessage(c.UserContext(), principal.User, c.Params("id"), req.Text, req.IsInternalNote)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketMessageResponse(msg)})
}

func (h *TicketsHandler) transition(c *fiber.Ctx, apply func(*fiber.Ctx, *domain.User) (*domain.Ticket, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := apply(c, principal.User)
	if err != nil {
		return err
	}
	policy, err := h.settings.LoadSLAPolicy(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, policy, time.Now())})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if driver := c.Query("driver_id"); driver != "" {
		filter.DriverID = &driver
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket, policy sla.Policy, now time.Time) dto.TicketSummary {
	eval := sla.Evaluate(ticket, policy, now)
	return dto.TicketSummary{
		ID:                 ticket.ID,
		DisplayID:          ticket.DisplayID,
		Status:             ticket.Status,
		Priority:           ticket.Priority,
		Source:             ticket.Source,
		Summary:            ticket.Summary,
		Category:           ticket.Category,
		AssignedOperatorID: ticket.AssignedOperatorID,
		SLA:                dto.SLAStatus{State: eval.State, Minutes: eval.Minutes},
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := &detail.Ticket
	msgs := make([]dto.TicketMessageResponse, 0, len(detail.Messages))
	for i := range detail.Messages {
		msgs = append(msgs, ticketMessageResponse(&detail.Messages[i]))
	}

	resp := dto.TicketDetailResponse{
		TicketSummary: dto.TicketSummary{
			ID:                 ticket.ID,
			DisplayID:          ticket.DisplayID,
			Status:             ticket.Status,
			Priority:           ticket.Priority,
			Source:             ticket.Source,
			Summary:            ticket.Summary,
			Category:           ticket.Category,
			AssignedOperatorID: ticket.AssignedOperatorID,
			SLA:                dto.SLAStatus{State: detail.SLA.State, Minutes: detail.SLA.Minutes},
			CreatedAt:          ticket.CreatedAt,
			UpdatedAt:          ticket.UpdatedAt,
		},
		HeldAt:           ticket.HeldAt,
		HoldNote:         ticket.HoldNote,
		TotalHoldSeconds: ticket.TotalHoldSeconds,
		ClaimedAt:        ticket.ClaimedAt,
		ResolvedAt:       ticket.ResolvedAt,
		DismissedAt:      ticket.DismissedAt,
		AvailableActions: detail.AvailableActions,
		Messages:         msgs,
	}
	if detail.Driver != nil {
		name := detail.Driver.FullName()
		resp.DriverName = &name
	}
	if detail.AssignedOperator != nil {
		resp.AssignedOperator = &detail.AssignedOperator.FullName
	}
	if detail.HeldBy != nil {
		resp.HeldBy = &detail.HeldBy.FullName
	}
	if detail.ScoreCategory != nil {
		resp.ScoreCategory = &dto.ScoreCategoryResponse{
			ID:       detail.ScoreCategory.ID,
			Name:     detail.ScoreCategory.Name,
			Points:   detail.ScoreCategory.Points,
			IsActive: detail.ScoreCategory.IsActive,
		}
	}
	return resp
}

func ticketMessageResponse(msg *domain.TicketMessage) dto.TicketMessageResponse {
	return dto.TicketMessageResponse{
		ID:             msg.ID,
		Direction:      msg.Direction,
		SenderType:     msg.SenderType,
		SenderName:     msg.SenderName,
		ContentType:    msg.ContentType,
		ContentText:    msg.ContentText,
		MediaURL:       msg.MediaURL,
		IsInternalNote: msg.IsInternalNote,
		CreatedAt:      msg.CreatedAt,
	}
}
