package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/fleetrelay/support-service/internal/domain"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedEngine() *Engine {
	return NewEngine(func() time.Time { return fixedNow })
}

func ptr[T any](v T) *T { return &v }

func openTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:        "ticket-1",
		DisplayID: "T-1001",
		Status:    domain.TicketStatusOpen,
		Priority:  domain.TicketPriorityNormal,
		CreatedAt: fixedNow.Add(-time.Hour),
	}
}

func inProgressTicket(assignee string) *domain.Ticket {
	t := openTicket()
	t.Status = domain.TicketStatusInProgress
	t.AssignedOperatorID = &assignee
	t.ClaimedAt = ptr(fixedNow.Add(-30 * time.Minute))
	return t
}

func operator(id string) Actor {
	return Actor{ID: id, Role: domain.UserRoleOperator}
}

func admin(id string) Actor {
	return Actor{ID: id, Role: domain.UserRoleAdmin}
}

func TestClaimOpenTicket(t *testing.T) {
	engine := fixedEngine()
	next, err := engine.Claim(openTicket(), operator("op-1"))
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if next.Status != domain.TicketStatusInProgress {
		t.Errorf("status = %s, want in_progress", next.Status)
	}
	if next.AssignedOperatorID == nil || *next.AssignedOperatorID != "op-1" {
		t.Errorf("assignee = %v, want op-1", next.AssignedOperatorID)
	}
	if next.ClaimedAt == nil || !next.ClaimedAt.Equal(fixedNow) {
		t.Errorf("claimed_at = %v, want %v", next.ClaimedAt, fixedNow)
	}
}

func TestClaimFromHoldAccruesHoldTime(t *testing.T) {
	engine := fixedEngine()
	ticket := openTicket()
	ticket.Status = domain.TicketStatusOnHold
	ticket.HeldAt = ptr(fixedNow.Add(-90*time.Second - 700*time.Millisecond))
	ticket.HeldByID = ptr("op-2")
	ticket.HoldNote = ptr("waiting on driver")
	ticket.TotalHoldSeconds = 10

	next, err := engine.Claim(ticket, operator("op-1"))
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	// 90.7s held, truncated to whole seconds, added to the prior total.
	if next.TotalHoldSeconds != 100 {
		t.Errorf("total_hold_seconds = %d, want 100", next.TotalHoldSeconds)
	}
	if next.HeldAt != nil || next.HeldByID != nil || next.HoldNote != nil {
		t.Errorf("hold fields not cleared: %+v", next)
	}
	if next.Status != domain.TicketStatusInProgress {
		t.Errorf("status = %s, want in_progress", next.Status)
	}
}

func TestClaimRejectsAssignedOrClosed(t *testing.T) {
	engine := fixedEngine()
	cases := []struct {
		name   string
		ticket *domain.Ticket
	}{
		{"already assigned", func() *domain.Ticket {
			ticket := openTicket()
			ticket.AssignedOperatorID = ptr("op-9")
			return ticket
		}()},
		{"in progress", inProgressTicket("op-9")},
		{"resolved", func() *domain.Ticket {
			ticket := openTicket()
			ticket.Status = domain.TicketStatusResolved
			return ticket
		}()},
		{"dismissed", func() *domain.Ticket {
			ticket := openTicket()
			ticket.Status = domain.TicketStatusDismissed
			return ticket
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Claim(tc.ticket, operator("op-1")); !IsInvalidTransition(err) {
				t.Errorf("err = %v, want InvalidTransitionError", err)
			}
		})
	}
}

func TestReleaseByAssignee(t *testing.T) {
	engine := fixedEngine()
	ticket := inProgressTicket("op-1")
	ticket.TotalHoldSeconds = 55

	next, err := engine.Release(ticket, operator("op-1"))
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if next.Status != domain.TicketStatusOpen {
		t.Errorf("status = %s, want open", next.Status)
	}
	if next.AssignedOperatorID != nil || next.ClaimedAt != nil {
		t.Errorf("assignment not cleared: %+v", next)
	}
	if next.TotalHoldSeconds != 55 {
		t.Errorf("total_hold_seconds = %d, want 55 untouched", next.TotalHoldSeconds)
	}
}

func TestReleasePermissions(t *testing.T) {
	engine := fixedEngine()
	ticket := inProgressTicket("op-1")

	if _, err := engine.Release(ticket, operator("op-2")); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("other operator: err = %v, want ErrPermissionDenied", err)
	}
	// Release is assignee-only; even admins cannot release on behalf.
	if _, err := engine.Release(ticket, admin("admin-1")); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("admin: err = %v, want ErrPermissionDenied", err)
	}
}

func TestReleaseRequiresInProgress(t *testing.T) {
	engine := fixedEngine()
	if _, err := engine.Release(openTicket(), operator("op-1")); !IsInvalidTransition(err) {
		t.Errorf("err = %v, want InvalidTransitionError", err)
	}
}

func TestResolveAwardsScoreToAssignee(t *testing.T) {
	engine := fixedEngine()
	ticket := inProgressTicket("op-1")
	category := &domain.ScoreCategory{ID: "cat-1", Name: "Breakdown assistance", Points: 10, IsActive: true}

	next, award, err := engine.Resolve(ticket, admin("admin-1"), category)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if next.Status != domain.TicketStatusResolved {
		t.Errorf("status = %s, want resolved", next.Status)
	}
	if next.ResolvedAt == nil || !next.ResolvedAt.Equal(fixedNow) {
		t.Errorf("resolved_at = %v, want %v", next.ResolvedAt, fixedNow)
	}
	if next.ScoreCategoryID == nil || *next.ScoreCategoryID != "cat-1" {
		t.Errorf("score_category_id = %v, want cat-1", next.ScoreCategoryID)
	}
	// Assigned tickets credit the assignee even when an admin resolves.
	if award.OperatorID != "op-1" {
		t.Errorf("award operator = %s, want op-1", award.OperatorID)
	}
	if award.Points != 10 {
		t.Errorf("award points = %d, want 10", award.Points)
	}
	wantDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !award.ScoredDate.Equal(wantDate) {
		t.Errorf("scored_date = %v, want %v", award.ScoredDate, wantDate)
	}
}

func TestResolveUnassignedCreditsActor(t *testing.T) {
	engine := fixedEngine()
	category := &domain.ScoreCategory{ID: "cat-1", Points: 5, IsActive: true}

	_, award, err := engine.Resolve(openTicket(), admin("admin-1"), category)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if award.OperatorID != "admin-1" {
		t.Errorf("award operator = %s, want admin-1", award.OperatorID)
	}
}

func TestResolveRequiresCategory(t *testing.T) {
	engine := fixedEngine()
	if _, _, err := engine.Resolve(inProgressTicket("op-1"), operator("op-1"), nil); !errors.Is(err, ErrMissingScoreCategory) {
		t.Errorf("err = %v, want ErrMissingScoreCategory", err)
	}
}

func TestResolvePermissions(t *testing.T) {
	engine := fixedEngine()
	ticket := inProgressTicket("op-1")
	category := &domain.ScoreCategory{ID: "cat-1", Points: 5, IsActive: true}

	if _, _, err := engine.Resolve(ticket, operator("op-2"), category); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestResolveIdempotencyRejection(t *testing.T) {
	engine := fixedEngine()
	ticket := inProgressTicket("op-1")
	category := &domain.ScoreCategory{ID: "cat-1", Points: 5, IsActive: true}

	resolved, _, err := engine.Resolve(ticket, operator("op-1"), category)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if _, _, err := engine.Resolve(&resolved, operator("op-1"), category); !IsInvalidTransition(err) {
		t.Errorf("second Resolve err = %v, want InvalidTransitionError", err)
	}
}

func TestDismiss(t *testing.T) {
	engine := fixedEngine()
	next, err := engine.Dismiss(inProgressTicket("op-1"), operator("op-1"))
	if err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if next.Status != domain.TicketStatusDismissed {
		t.Errorf("status = %s, want dismissed", next.Status)
	}
	if next.DismissedAt == nil || !next.DismissedAt.Equal(fixedNow) {
		t.Errorf("dismissed_at = %v, want %v", next.DismissedAt, fixedNow)
	}
	if next.ResolvedAt != nil {
		t.Errorf("resolved_at set on dismiss: %v", next.ResolvedAt)
	}
}

func TestDismissOnHoldRejected(t *testing.T) {
	engine := fixedEngine()
	ticket := openTicket()
	ticket.Status = domain.TicketStatusOnHold
	if _, err := engine.Dismiss(ticket, admin("admin-1")); !IsInvalidTransition(err) {
		t.Errorf("err = %v, want InvalidTransitionError", err)
	}
}

func TestHold(t *testing.T) {
	engine := fixedEngine()
	next, err := engine.Hold(inProgressTicket("op-1"), operator("op-1"), "  waiting on parts  ")
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if next.Status != domain.TicketStatusOnHold {
		t.Errorf("status = %s, want on_hold", next.Status)
	}
	if next.AssignedOperatorID != nil || next.ClaimedAt != nil {
		t.Errorf("hold must unassign: %+v", next)
	}
	if next.HeldAt == nil || !next.HeldAt.Equal(fixedNow) {
		t.Errorf("held_at = %v, want %v", next.HeldAt, fixedNow)
	}
	if next.HeldByID == nil || *next.HeldByID != "op-1" {
		t.Errorf("held_by = %v, want op-1", next.HeldByID)
	}
	if next.HoldNote == nil || *next.HoldNote != "waiting on parts" {
		t.Errorf("hold_note = %v, want trimmed note", next.HoldNote)
	}
}

func TestHoldRequiresNote(t *testing.T) {
	engine := fixedEngine()
	if _, err := engine.Hold(inProgressTicket("op-1"), operator("op-1"), "   "); !errors.Is(err, ErrMissingHoldNote) {
		t.Errorf("err = %v, want ErrMissingHoldNote", err)
	}
}

func TestHoldThenClaimRoundTrip(t *testing.T) {
	engine := fixedEngine()
	held, err := engine.Hold(inProgressTicket("op-1"), operator("op-1"), "waiting on driver")
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}

	later := fixedNow.Add(5 * time.Minute)
	engine2 := NewEngine(func() time.Time { return later })
	claimed, err := engine2.Claim(&held, operator("op-2"))
	if err != nil {
		t.Fatalf("Claim after hold: %v", err)
	}
	if claimed.TotalHoldSeconds != 300 {
		t.Errorf("total_hold_seconds = %d, want 300", claimed.TotalHoldSeconds)
	}
	if claimed.AssignedOperatorID == nil || *claimed.AssignedOperatorID != "op-2" {
		t.Errorf("assignee = %v, want op-2", claimed.AssignedOperatorID)
	}
}

func TestAvailableActions(t *testing.T) {
	engine := fixedEngine()
	cases := []struct {
		name   string
		ticket *domain.Ticket
		actor  Actor
		want   []Action
	}{
		{"open unassigned operator", openTicket(), operator("op-1"), []Action{ActionClaim}},
		{"open unassigned admin", openTicket(), admin("admin-1"), []Action{ActionClaim, ActionResolve, ActionDismiss}},
		{"in progress assignee", inProgressTicket("op-1"), operator("op-1"), []Action{ActionRelease, ActionResolve, ActionHold, ActionDismiss}},
		{"in progress other operator", inProgressTicket("op-2"), operator("op-1"), nil},
		{"in progress admin", inProgressTicket("op-2"), admin("admin-1"), []Action{ActionResolve, ActionHold, ActionDismiss}},
		{"on hold operator", func() *domain.Ticket {
			ticket := openTicket()
			ticket.Status = domain.TicketStatusOnHold
			return ticket
		}(), operator("op-1"), []Action{ActionClaim}},
		{"resolved", func() *domain.Ticket {
			ticket := openTicket()
			ticket.Status = domain.TicketStatusResolved
			return ticket
		}(), admin("admin-1"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.AvailableActions(tc.ticket, tc.actor)
			if len(got) != len(tc.want) {
				t.Fatalf("actions = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("actions = %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	engine := fixedEngine()
	ticket := openTicket()
	if _, err := engine.Claim(ticket, operator("op-1")); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen || ticket.AssignedOperatorID != nil {
		t.Errorf("input ticket mutated: %+v", ticket)
	}
}
