package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fleetrelay/support-service/internal/events"
	"github.com/fleetrelay/support-service/internal/realtime"
)

func TestRealtimeBridgeForwardsChanges(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifier := realtime.NewMemoryNotifier()
	bridge := NewRealtimeBridge(dispatcher, notifier, zap.NewNop())
	bridge.RegisterHandlers()

	dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventTicketClaimed,
		TicketID:  "ticket-1",
		Timestamp: time.Now(),
	})
	dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-2",
		Type:      events.EventTicketResolved,
		TicketID:  "ticket-1",
		Timestamp: time.Now(),
	})
	dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-3",
		Type:      events.EventSettingsUpdated,
		Timestamp: time.Now(),
	})

	changes := notifier.Changes()
	// claim -> tickets; resolve -> tickets + score_entries; settings -> settings.
	want := map[string]int{
		realtime.TableTickets:      2,
		realtime.TableScoreEntries: 1,
		realtime.TableSettings:     1,
	}
	got := map[string]int{}
	for _, change := range changes {
		got[change.Table]++
	}
	for table, count := range want {
		if got[table] != count {
			t.Errorf("table %s: %d changes, want %d (all: %v)", table, got[table], count, changes)
		}
	}
	if len(changes) != 4 {
		t.Errorf("total changes = %d, want 4", len(changes))
	}
}
