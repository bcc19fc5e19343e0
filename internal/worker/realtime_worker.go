package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleetrelay/support-service/internal/realtime"
	"github.com/fleetrelay/support-service/internal/service"
)

// StartRealtimeWorker registers the event-to-notifier bridge handlers.
func StartRealtimeWorker(bridge *service.RealtimeBridge) {
	if bridge == nil {
		return
	}
	bridge.RegisterHandlers()
}

// ChangeSubscriber is the consumer side of the change feed.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, table string) (<-chan realtime.Change, func() error)
}

// StartChangeFeedMonitor tails every change channel and logs each hint until
// ctx is cancelled. The log line confirms end to end that a write made it
// onto the dashboard's invalidation feed.
func StartChangeFeedMonitor(ctx context.Context, sub ChangeSubscriber, logger *zap.Logger) {
	tables := []string{
		realtime.TableTickets,
		realtime.TableTicketMessages,
		realtime.TableScoreEntries,
		realtime.TableSettings,
	}
	for _, table := range tables {
		ch, closeSub := sub.Subscribe(ctx, table)
		go func() {
			defer func() { _ = closeSub() }()
			for {
				select {
				case change, ok := <-ch:
					if !ok {
						return
					}
					logger.Debug("change notified",
						zap.String("table", change.Table),
						zap.String("ticket_id", change.TicketID))
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}
