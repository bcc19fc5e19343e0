package realtime

import (
	"context"
	"sync"
)

// Table names broadcast to dashboard clients after writes.
const (
	TableTickets        = "tickets"
	TableTicketMessages = "ticket_messages"
	TableScoreEntries   = "score_entries"
	TableSettings       = "settings"
)

// Change tells subscribers that rows in a table changed. It is an
// invalidation hint, never an authoritative delta: delivery is best-effort,
// at-least-once, and unordered, so consumers re-fetch instead of applying it.
type Change struct {
	Table    string `json:"table"`
	TicketID string `json:"ticket_id,omitempty"`
}

// Notifier publishes table-change notifications.
type Notifier interface {
	NotifyChanged(ctx context.Context, change Change) error
}

// MemoryNotifier records changes in memory; used in tests and when Redis is
// not configured.
type MemoryNotifier struct {
	mu      sync.Mutex
	changes []Change
}

// NewMemoryNotifier creates an in-memory notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// NotifyChanged records the change.
func (n *MemoryNotifier) NotifyChanged(_ context.Context, change Change) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, change)
	return nil
}

// Changes returns a copy of everything notified so far.
func (n *MemoryNotifier) Changes() []Change {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Change, len(n.changes))
	copy(out, n.changes)
	return out
}
