package worker

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fleetrelay/support-service/internal/realtime"
)

type fakeFeed struct {
	channels map[string]chan realtime.Change
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{channels: map[string]chan realtime.Change{}}
}

func (f *fakeFeed) Subscribe(_ context.Context, table string) (<-chan realtime.Change, func() error) {
	ch := make(chan realtime.Change, 8)
	f.channels[table] = ch
	return ch, func() error { return nil }
}

func TestChangeFeedMonitorLogsHints(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := newFakeFeed()
	StartChangeFeedMonitor(ctx, feed, zap.New(core))

	if len(feed.channels) != 4 {
		t.Fatalf("subscribed tables = %d, want 4", len(feed.channels))
	}
	feed.channels[realtime.TableTickets] <- realtime.Change{Table: realtime.TableTickets, TicketID: "ticket-1"}
	feed.channels[realtime.TableSettings] <- realtime.Change{Table: realtime.TableSettings}

	deadline := time.After(2 * time.Second)
	for logs.Len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("logged %d entries, want 2", logs.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}
	for _, entry := range logs.All() {
		if entry.Message != "change notified" {
			t.Errorf("message = %q, want change notified", entry.Message)
		}
	}
}
