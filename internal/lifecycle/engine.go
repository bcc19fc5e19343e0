package lifecycle

import (
	"strings"
	"time"

	"github.com/fleetrelay/support-service/internal/domain"
)

// Action enumerates operator-initiated lifecycle transitions.
type Action string

const (
	ActionClaim   Action = "claim"
	ActionRelease Action = "release"
	ActionResolve Action = "resolve"
	ActionDismiss Action = "dismiss"
	ActionHold    Action = "hold"
)

// Actor identifies who is attempting a transition.
type Actor struct {
	ID   string
	Role domain.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.UserRoleAdmin
}

func (a Actor) isAssignee(t *domain.Ticket) bool {
	return t.AssignedOperatorID != nil && *t.AssignedOperatorID == a.ID
}

// ScoreAward describes the score entry a resolution must append.
type ScoreAward struct {
	OperatorID      string
	ScoreCategoryID string
	Points          int
	ScoredDate      time.Time
}

// Engine validates lifecycle transitions and computes every derived field
// deterministically from the current ticket state and the acting operator.
// It performs no I/O: callers persist the returned snapshot with a
// conditional write so that at most one concurrent transition wins.
type Engine struct {
	now func() time.Time
}

// NewEngine constructs an engine. A nil clock defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Claim assigns an open or held ticket to the actor. Claiming out of a hold
// folds the completed hold interval into total_hold_seconds.
func (e *Engine) Claim(t *domain.Ticket, actor Actor) (domain.Ticket, error) {
	if err := claimPrecondition(t); err != nil {
		return domain.Ticket{}, err
	}
	now := e.now()
	next := *t
	if t.Status == domain.TicketStatusOnHold && t.HeldAt != nil {
		held := now.Sub(*t.HeldAt)
		if held > 0 {
			next.TotalHoldSeconds += int64(held.Seconds())
		}
	}
	next.Status = domain.TicketStatusInProgress
	operatorID := actor.ID
	next.AssignedOperatorID = &operatorID
	next.ClaimedAt = &now
	next.HeldAt = nil
	next.HeldByID = nil
	next.HoldNote = nil
	return next, nil
}

// Release returns an in-progress ticket to the open pool. Only the assignee
// may release; accumulated hold time is untouched.
func (e *Engine) Release(t *domain.Ticket, actor Actor) (domain.Ticket, error) {
	if t.Status != domain.TicketStatusInProgress {
		return domain.Ticket{}, &InvalidTransitionError{Action: ActionRelease, Status: t.Status}
	}
	if !actor.isAssignee(t) {
		return domain.Ticket{}, ErrPermissionDenied
	}
	next := *t
	next.Status = domain.TicketStatusOpen
	next.AssignedOperatorID = nil
	next.ClaimedAt = nil
	return next, nil
}

// Resolve closes the ticket with a score category and produces the score
// award the caller must append to the ledger. The award goes to the assignee
// when set, otherwise to the resolving actor.
func (e *Engine) Resolve(t *domain.Ticket, actor Actor, category *domain.ScoreCategory) (domain.Ticket, *ScoreAward, error) {
	if t.Status != domain.TicketStatusInProgress && t.Status != domain.TicketStatusOpen {
		return domain.Ticket{}, nil, &InvalidTransitionError{Action: ActionResolve, Status: t.Status}
	}
	if !actor.isAssignee(t) && !actor.IsAdmin() {
		return domain.Ticket{}, nil, ErrPermissionDenied
	}
	if category == nil {
		return domain.Ticket{}, nil, ErrMissingScoreCategory
	}
	now := e.now()
	next := *t
	next.Status = domain.TicketStatusResolved
	next.ResolvedAt = &now
	categoryID := category.ID
	next.ScoreCategoryID = &categoryID

	operatorID := actor.ID
	if t.AssignedOperatorID != nil {
		operatorID = *t.AssignedOperatorID
	}
	award := &ScoreAward{
		OperatorID:      operatorID,
		ScoreCategoryID: category.ID,
		Points:          category.Points,
		ScoredDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}
	return next, award, nil
}

// Dismiss closes the ticket without awarding any score.
func (e *Engine) Dismiss(t *domain.Ticket, actor Actor) (domain.Ticket, error) {
	if t.Status != domain.TicketStatusOpen && t.Status != domain.TicketStatusInProgress {
		return domain.Ticket{}, &InvalidTransitionError{Action: ActionDismiss, Status: t.Status}
	}
	if !actor.isAssignee(t) && !actor.IsAdmin() {
		return domain.Ticket{}, ErrPermissionDenied
	}
	now := e.now()
	next := *t
	next.Status = domain.TicketStatusDismissed
	next.DismissedAt = &now
	return next, nil
}

// Hold parks an in-progress ticket while it waits on external input. The
// ticket is unassigned so any operator may pick it back up later.
func (e *Engine) Hold(t *domain.Ticket, actor Actor, note string) (domain.Ticket, error) {
	if t.Status != domain.TicketStatusInProgress {
		return domain.Ticket{}, &InvalidTransitionError{Action: ActionHold, Status: t.Status}
	}
	if !actor.isAssignee(t) && !actor.IsAdmin() {
		return domain.Ticket{}, ErrPermissionDenied
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return domain.Ticket{}, ErrMissingHoldNote
	}
	now := e.now()
	next := *t
	next.Status = domain.TicketStatusOnHold
	next.AssignedOperatorID = nil
	next.ClaimedAt = nil
	next.HeldAt = &now
	heldBy := actor.ID
	next.HeldByID = &heldBy
	next.HoldNote = &note
	return next, nil
}

// Can reports whether the action would be legal for the actor on the
// ticket's current state, assuming any required inputs (score category,
// hold note) are supplied. Both action-button enablement and the mutation
// path consult this same table.
func (e *Engine) Can(t *domain.Ticket, actor Actor, action Action) bool {
	switch action {
	case ActionClaim:
		return claimPrecondition(t) == nil
	case ActionRelease:
		return t.Status == domain.TicketStatusInProgress && actor.isAssignee(t)
	case ActionResolve:
		return (t.Status == domain.TicketStatusInProgress || t.Status == domain.TicketStatusOpen) &&
			(actor.isAssignee(t) || actor.IsAdmin())
	case ActionDismiss:
		return (t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress) &&
			(actor.isAssignee(t) || actor.IsAdmin())
	case ActionHold:
		return t.Status == domain.TicketStatusInProgress && (actor.isAssignee(t) || actor.IsAdmin())
	default:
		return false
	}
}

// AvailableActions lists the legal actions for the actor in a stable order.
func (e *Engine) AvailableActions(t *domain.Ticket, actor Actor) []Action {
	all := []Action{ActionClaim, ActionRelease, ActionResolve, ActionHold, ActionDismiss}
	available := make([]Action, 0, len(all))
	for _, action := range all {
		if e.Can(t, actor, action) {
			available = append(available, action)
		}
	}
	return available
}

func claimPrecondition(t *domain.Ticket) error {
	if t.Status != domain.TicketStatusOpen && t.Status != domain.TicketStatusOnHold {
		return &InvalidTransitionError{Action: ActionClaim, Status: t.Status}
	}
	if t.AssignedOperatorID != nil {
		return &InvalidTransitionError{Action: ActionClaim, Status: t.Status}
	}
	return nil
}
