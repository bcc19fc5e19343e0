package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/events"
	"github.com/fleetrelay/support-service/internal/lifecycle"
	"github.com/fleetrelay/support-service/internal/repository"
	"github.com/fleetrelay/support-service/internal/sla"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// TicketService coordinates ticket workflows: creation, the lifecycle
// transitions, and the conversation thread.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	drivers    repository.DriverRepository
	categories repository.ScoreCategoryRepository
	scores     repository.ScoreEntryRepository
	users      repository.UserRepository
	engine     *lifecycle.Engine
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	DriverRepo   repository.DriverRepository
	CategoryRepo repository.ScoreCategoryRepository
	ScoreRepo    repository.ScoreEntryRepository
	UserRepo     repository.UserRepository
	Engine       *lifecycle.Engine
	Dispatcher   events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	engine := deps.Engine
	if engine == nil {
		engine = lifecycle.NewEngine(nil)
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		drivers:    deps.DriverRepo,
		categories: deps.CategoryRepo,
		scores:     deps.ScoreRepo,
		users:      deps.UserRepo,
		engine:     engine,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes manual ticket creation.
type TicketCreateInput struct {
	DriverID   *string
	Summary    string
	Category   *string
	Priority   domain.TicketPriority
	SelfAssign bool
}

// TicketDetail is a ticket with its joined context for the detail view.
type TicketDetail struct {
	Ticket           domain.Ticket
	Driver           *domain.Driver
	AssignedOperator *domain.User
	HeldBy           *domain.User
	ScoreCategory    *domain.ScoreCategory
	Messages         []domain.TicketMessage
	AvailableActions []lifecycle.Action
	SLA              sla.Evaluation
}

// CreateTicket records a manually created ticket. With SelfAssign the
// creating operator claims it in the same write, so it is born in_progress.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("operator required")
	}
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		return nil, apperrors.NewValidationError("summary required", nil)
	}
	if input.DriverID != nil {
		if _, err := s.drivers.GetByID(ctx, *input.DriverID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("driver", map[string]any{"driver_id": *input.DriverID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	ticket := &domain.Ticket{
		DriverID: input.DriverID,
		Source:   domain.TicketSourceManual,
		Summary:  &summary,
		Category: input.Category,
		Status:   domain.TicketStatusOpen,
		Priority: input.Priority,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityNormal
	}
	if input.SelfAssign {
		claimed, err := s.engine.Claim(ticket, lifecycle.Actor{ID: actor.ID, Role: actor.Role})
		if err != nil {
			return nil, mapLifecycleError(err)
		}
		ticket = &claimed
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Source:       ticket.Source,
		Priority:     ticket.Priority,
		SelfAssigned: input.SelfAssign,
	})
	return ticket, nil
}

// ListTickets returns tickets matching the dashboard filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicketDetail fetches a ticket with joined driver, operator, category,
// thread, the actions available to the viewer, and its live SLA position.
func (s *TicketService) GetTicketDetail(ctx context.Context, actor *domain.User, ticketID string, policy sla.Policy, now time.Time) (*TicketDetail, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	// A dangling reference renders without the join; any other lookup
	// failure fails the whole detail.
	detail := &TicketDetail{Ticket: *ticket}
	if ticket.DriverID != nil {
		driver, err := s.drivers.GetByID(ctx, *ticket.DriverID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		detail.Driver = driver
	}
	if ticket.AssignedOperatorID != nil {
		operator, err := s.users.GetByID(ctx, *ticket.AssignedOperatorID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		detail.AssignedOperator = operator
	}
	if ticket.HeldByID != nil {
		holder, err := s.users.GetByID(ctx, *ticket.HeldByID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		detail.HeldBy = holder
	}
	if ticket.ScoreCategoryID != nil {
		category, err := s.categories.GetByID(ctx, *ticket.ScoreCategoryID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		detail.ScoreCategory = category
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	detail.Messages = msgs
	if actor != nil {
		detail.AvailableActions = s.engine.AvailableActions(ticket, lifecycle.Actor{ID: actor.ID, Role: actor.Role})
	}
	detail.SLA = sla.Evaluate(ticket, policy, now)
	return detail, nil
}

// Claim assigns an open or held ticket to the actor. If a concurrent claim
// wins the conditional write, the caller gets a conflict and must refresh.
func (s *TicketService) Claim(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	fromStatus := ticket.Status
	priorHold := ticket.TotalHoldSeconds
	next, err := s.engine.Claim(ticket, lifecycle.Actor{ID: actor.ID, Role: actor.Role})
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	guard := repository.TransitionGuard{
		Statuses:          []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusOnHold},
		RequireUnassigned: true,
	}
	if err := s.tickets.ApplyTransition(ctx, &next, guard); err != nil {
		return nil, mapConflict(err, "ticket was just claimed by someone else")
	}

	s.publish(ctx, actor, events.EventTicketClaimed, next.ID, events.TicketClaimedPayload{
		FromStatus:         fromStatus,
		HoldSecondsAccrued: next.TotalHoldSeconds - priorHold,
	})
	return &next, nil
}

// Release returns the actor's in-progress ticket to the open pool.
func (s *TicketService) Release(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	next, err := s.engine.Release(ticket, lifecycle.Actor{ID: actor.ID, Role: actor.Role})
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	guard := repository.TransitionGuard{
		Statuses:        []domain.TicketStatus{domain.TicketStatusInProgress},
		RequireAssignee: &actor.ID,
	}
	if err := s.tickets.ApplyTransition(ctx, &next, guard); err != nil {
		return nil, mapConflict(err, "ticket was updated by someone else")
	}

	s.publish(ctx, actor, events.EventTicketReleased, next.ID, nil)
	return &next, nil
}

// Resolve closes the ticket against a score category and appends exactly one
// score entry to the ledger.
func (s *TicketService) Resolve(ctx context.Context, actor *domain.User, ticketID, categoryID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var category *domain.ScoreCategory
	if strings.TrimSpace(categoryID) != "" {
		category, err = s.categories.GetByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("score category not found", map[string]any{"score_category_id": categoryID})
			}
			return nil, apperrors.MapError(err)
		}
		if !category.IsActive {
			return nil, apperrors.NewValidationError("score category is not active", map[string]any{"score_category_id": categoryID})
		}
	}

	next, award, err := s.engine.Resolve(ticket, lifecycle.Actor{ID: actor.ID, Role: actor.Role}, category)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	guard := repository.TransitionGuard{
		Statuses: []domain.TicketStatus{domain.TicketStatusInProgress, domain.TicketStatusOpen},
	}
	if err := s.tickets.ApplyTransition(ctx, &next, guard); err != nil {
		return nil, mapConflict(err, "ticket was updated by someone else")
	}

	entry := &domain.ScoreEntry{
		OperatorID:      award.OperatorID,
		ScoreCategoryID: award.ScoreCategoryID,
		TicketID:        next.ID,
		Points:          award.Points,
		ScoredDate:      award.ScoredDate,
	}
	if err := s.scores.Append(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateScoreEntry) {
			return nil, apperrors.NewConflict("ticket already scored", map[string]any{"ticket_id": next.ID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.EventTicketResolved, next.ID, events.TicketResolvedPayload{
		ScoreCategoryID: award.ScoreCategoryID,
		Points:          award.Points,
		OperatorID:      award.OperatorID,
	})
	return &next, nil
}

// Dismiss closes the ticket without awarding any score.
func (s *TicketService) Dismiss(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	next, err := s.engine.Dismiss(ticket, lifecycle.Actor{ID: actor.ID, Role: actor.Role})
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	guard := repository.TransitionGuard{
		Statuses: []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
	}
	if err := s.tickets.ApplyTransition(ctx, &next, guard); err != nil {
		return nil, mapConflict(err, "ticket was updated by someone else")
	}

	s.publish(ctx, actor, events.EventTicketDismissed, next.ID, nil)
	return &next, nil
}

// Hold parks the ticket while it waits on external input.
func (s *TicketService) Hold(ctx context.Context, actor *domain.User, ticketID, note string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	next, err := s.engine.Hold(ticket, lifecycle.Actor{ID: actor.ID, Role: actor.Role}, note)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	guard := repository.TransitionGuard{
		Statuses: []domain.TicketStatus{domain.TicketStatusInProgress},
	}
	if err := s.tickets.ApplyTransition(ctx, &next, guard); err != nil {
		return nil, mapConflict(err, "ticket was updated by someone else")
	}

	s.publish(ctx, actor, events.EventTicketHeld, next.ID, events.TicketHeldPayload{HoldNote: note})
	return &next, nil
}

// AddMessage appends an operator reply or internal note to the thread.
// Replies are closed off on held and terminal tickets.
func (s *TicketService) AddMessage(ctx context.Context, actor *domain.User, ticketID, text string, internalNote bool) (*domain.TicketMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("message text required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.IsTerminal() || ticket.Status == domain.TicketStatusOnHold {
		return nil, apperrors.NewInvalidTransition("cannot reply to a closed or held ticket", map[string]any{"status": ticket.Status})
	}
	isAssignee := ticket.AssignedOperatorID != nil && *ticket.AssignedOperatorID == actor.ID
	if !isAssignee && actor.Role != domain.UserRoleAdmin {
		return nil, apperrors.NewForbidden("only the assignee or an admin can reply")
	}

	operatorID := actor.ID
	msg := &domain.TicketMessage{
		TicketID:       ticket.ID,
		Direction:      domain.MessageDirectionOutbound,
		SenderType:     domain.SenderTypeOperator,
		SenderName:     actor.FullName,
		SenderUserID:   &operatorID,
		ContentType:    domain.ContentTypeText,
		ContentText:    &text,
		IsInternalNote: internalNote,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.EventTicketMessageAdded, ticket.ID, events.TicketMessageAddedPayload{
		MessageID:      msg.ID,
		IsInternalNote: internalNote,
	})
	return msg, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, actor *domain.User, eventType events.EventType, ticketID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if actor != nil {
		event.Actor = events.Actor{UserID: actor.ID, Role: actor.Role}
	}
	s.dispatcher.Publish(ctx, event)
}

// mapLifecycleError translates engine rejections into transport-level errors.
func mapLifecycleError(err error) error {
	var invalid *lifecycle.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		return apperrors.NewInvalidTransition(invalid.Error(), map[string]any{
			"action": string(invalid.Action),
			"status": string(invalid.Status),
		})
	case errors.Is(err, lifecycle.ErrPermissionDenied):
		return apperrors.NewForbidden(err.Error())
	case errors.Is(err, lifecycle.ErrMissingScoreCategory),
		errors.Is(err, lifecycle.ErrMissingHoldNote):
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return apperrors.MapError(err)
}

func mapConflict(err error, message string) error {
	if errors.Is(err, repository.ErrTicketConflict) {
		return apperrors.NewConflict(message, nil)
	}
	return apperrors.MapError(err)
}
