package sla

import (
	"testing"
	"time"

	"github.com/fleetrelay/support-service/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ticketAged(age time.Duration, priority domain.TicketPriority) *domain.Ticket {
	return &domain.Ticket{
		Status:    domain.TicketStatusOpen,
		Priority:  priority,
		CreatedAt: testNow.Add(-age),
	}
}

func TestEvaluateRemaining(t *testing.T) {
	policy := DefaultPolicy()
	ticket := ticketAged(10*time.Minute, domain.TicketPriorityUrgent)

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateRemaining {
		t.Fatalf("state = %s, want remaining", eval.State)
	}
	if eval.Minutes != 20 {
		t.Errorf("minutes = %d, want 20", eval.Minutes)
	}
}

func TestEvaluateOverdue(t *testing.T) {
	policy := DefaultPolicy()
	ticket := ticketAged(45*time.Minute, domain.TicketPriorityUrgent)

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateOverdue {
		t.Fatalf("state = %s, want overdue", eval.State)
	}
	if eval.Minutes != 15 {
		t.Errorf("minutes = %d, want 15", eval.Minutes)
	}
}

func TestEvaluateExactThresholdIsOverdue(t *testing.T) {
	policy := DefaultPolicy()
	ticket := ticketAged(30*time.Minute, domain.TicketPriorityUrgent)

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateOverdue || eval.Minutes != 0 {
		t.Errorf("eval = %+v, want overdue by 0", eval)
	}
}

func TestEvaluateExcludesHoldTime(t *testing.T) {
	policy := DefaultPolicy()
	// 50 minutes old but 25 of them were spent on hold: effective 25 elapsed.
	ticket := ticketAged(50*time.Minute, domain.TicketPriorityUrgent)
	ticket.TotalHoldSeconds = 25 * 60

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateRemaining {
		t.Fatalf("state = %s, want remaining", eval.State)
	}
	if eval.Minutes != 5 {
		t.Errorf("minutes = %d, want 5", eval.Minutes)
	}
}

func TestEvaluateFloorsPartialMinutes(t *testing.T) {
	policy := DefaultPolicy()
	// 29m59s elapsed floors to 29 minutes: still inside a 30-minute budget.
	ticket := ticketAged(29*time.Minute+59*time.Second, domain.TicketPriorityUrgent)

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateRemaining || eval.Minutes != 1 {
		t.Errorf("eval = %+v, want remaining 1", eval)
	}
}

func TestEvaluateClampsNegativeElapsed(t *testing.T) {
	policy := DefaultPolicy()
	// Hold accumulator exceeds wall-clock age; clamp to zero elapsed.
	ticket := ticketAged(10*time.Minute, domain.TicketPriorityNormal)
	ticket.TotalHoldSeconds = 20 * 60

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateRemaining {
		t.Fatalf("state = %s, want remaining", eval.State)
	}
	if eval.Minutes != DefaultNormalThresholdMinutes {
		t.Errorf("minutes = %d, want full budget %d", eval.Minutes, DefaultNormalThresholdMinutes)
	}
}

func TestEvaluateZeroThresholdImmediatelyOverdue(t *testing.T) {
	policy := Policy{UrgentThresholdMinutes: 0, NormalThresholdMinutes: 0, ComplianceTargetPercent: 85}
	ticket := ticketAged(0, domain.TicketPriorityNormal)

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateOverdue || eval.Minutes != 0 {
		t.Errorf("eval = %+v, want overdue by 0", eval)
	}
}

func TestEvaluateHeldTicketIsPaused(t *testing.T) {
	ticket := ticketAged(3*time.Hour, domain.TicketPriorityUrgent)
	ticket.Status = domain.TicketStatusOnHold

	eval := Evaluate(ticket, DefaultPolicy(), testNow)
	if eval.State != StatePaused || eval.Minutes != 0 {
		t.Errorf("eval = %+v, want paused", eval)
	}
}

func TestEvaluateTerminalNotApplicable(t *testing.T) {
	for _, status := range []domain.TicketStatus{domain.TicketStatusResolved, domain.TicketStatusDismissed} {
		ticket := ticketAged(time.Hour, domain.TicketPriorityUrgent)
		ticket.Status = status
		eval := Evaluate(ticket, DefaultPolicy(), testNow)
		if eval.State != StateNotApplicable {
			t.Errorf("status %s: state = %s, want not_applicable", status, eval.State)
		}
	}
}

func TestEvaluateNormalPriorityUsesNormalThreshold(t *testing.T) {
	policy := DefaultPolicy()
	ticket := ticketAged(60*time.Minute, domain.TicketPriorityNormal)

	eval := Evaluate(ticket, policy, testNow)
	if eval.State != StateRemaining || eval.Minutes != 180 {
		t.Errorf("eval = %+v, want remaining 180", eval)
	}
}

func TestResolvedWithinThresholdUsesRawAge(t *testing.T) {
	policy := DefaultPolicy()
	created := testNow.Add(-100 * time.Minute)
	resolved := testNow

	ticket := &domain.Ticket{
		Status:     domain.TicketStatusResolved,
		Priority:   domain.TicketPriorityUrgent,
		CreatedAt:  created,
		ResolvedAt: &resolved,
		// Hold time is deliberately ignored by the reporting measure.
		TotalHoldSeconds: 90 * 60,
	}
	if ResolvedWithinThreshold(ticket, policy) {
		t.Error("ticket resolved in 100 raw minutes against a 30-minute budget reported compliant")
	}
}

func TestComplianceTallyPercent(t *testing.T) {
	policy := DefaultPolicy()
	var tally ComplianceTally

	if _, ok := tally.Percent(); ok {
		t.Error("empty tally reported data")
	}

	resolvedAt := testNow
	tally.Add(&domain.Ticket{Priority: domain.TicketPriorityUrgent, CreatedAt: testNow.Add(-20 * time.Minute), ResolvedAt: &resolvedAt}, policy)
	tally.Add(&domain.Ticket{Priority: domain.TicketPriorityUrgent, CreatedAt: testNow.Add(-300 * time.Minute), ResolvedAt: &resolvedAt}, policy)
	tally.Add(&domain.Ticket{Priority: domain.TicketPriorityNormal, CreatedAt: testNow.Add(-200 * time.Minute), ResolvedAt: &resolvedAt}, policy)

	percent, ok := tally.Percent()
	if !ok {
		t.Fatal("tally with entries reported no data")
	}
	// 2 of 3 compliant rounds to 67.
	if percent != 67 {
		t.Errorf("percent = %d, want 67", percent)
	}
	if tally.Compliant != 2 || tally.Total != 3 {
		t.Errorf("tally = %+v, want 2/3", tally)
	}
}
