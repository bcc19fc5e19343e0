package sla

import (
	"math"

	"github.com/fleetrelay/support-service/internal/domain"
)

// ResolvedWithinThreshold reports whether a resolved ticket finished inside
// its SLA budget. Reporting measures raw resolved_at minus created_at
// without subtracting hold time, unlike the live countdown.
func ResolvedWithinThreshold(t *domain.Ticket, policy Policy) bool {
	if t.ResolvedAt == nil {
		return false
	}
	resolveMinutes := t.ResolvedAt.Sub(t.CreatedAt).Minutes()
	return resolveMinutes <= float64(policy.ThresholdMinutes(t.Priority))
}

// ComplianceTally accumulates per-group compliance counts.
type ComplianceTally struct {
	Compliant int
	Total     int
}

// Add folds one resolved ticket into the tally.
func (c *ComplianceTally) Add(t *domain.Ticket, policy Policy) {
	c.Total++
	if ResolvedWithinThreshold(t, policy) {
		c.Compliant++
	}
}

// Percent returns the rounded compliance percentage. The second return is
// false when no tickets were tallied, in which case callers display "N/A".
func (c ComplianceTally) Percent() (int, bool) {
	if c.Total == 0 {
		return 0, false
	}
	return int(math.Round(100 * float64(c.Compliant) / float64(c.Total))), true
}
