package sla

import (
	"time"

	"github.com/fleetrelay/support-service/internal/domain"
)

// State classifies a ticket's live SLA position.
type State string

const (
	StateNotApplicable State = "not_applicable"
	StatePaused        State = "paused"
	StateRemaining     State = "remaining"
	StateOverdue       State = "overdue"
)

// Evaluation is the display-ready SLA status for one ticket. Minutes carries
// the time remaining before breach (StateRemaining) or the time past it
// (StateOverdue); it is zero for the other states.
type Evaluation struct {
	State   State
	Minutes int
}

// Evaluate computes the live SLA position of a ticket against the policy at
// the given instant. It is a pure function with no stored state: hold time
// is excluded from the elapsed clock, terminal tickets report
// NotApplicable, and held tickets report Paused with no countdown.
func Evaluate(t *domain.Ticket, policy Policy, now time.Time) Evaluation {
	if t.Status.IsTerminal() {
		return Evaluation{State: StateNotApplicable}
	}
	if t.Status == domain.TicketStatusOnHold {
		return Evaluation{State: StatePaused}
	}

	threshold := policy.ThresholdMinutes(t.Priority)
	elapsedSeconds := int64(now.Sub(t.CreatedAt).Seconds()) - t.TotalHoldSeconds
	if elapsedSeconds < 0 {
		// Clock skew or an over-counted hold accumulator; never report a
		// negative elapsed clock.
		elapsedSeconds = 0
	}
	elapsedMinutes := int(elapsedSeconds / 60)

	if elapsedMinutes >= threshold {
		return Evaluation{State: StateOverdue, Minutes: elapsedMinutes - threshold}
	}
	return Evaluation{State: StateRemaining, Minutes: threshold - elapsedMinutes}
}
