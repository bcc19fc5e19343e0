package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleetrelay/support-service/internal/events"
	"github.com/fleetrelay/support-service/internal/realtime"
)

// RealtimeBridge forwards domain events to the realtime notifier as
// table-change hints so dashboard clients know to re-fetch.
type RealtimeBridge struct {
	dispatcher events.Dispatcher
	notifier   realtime.Notifier
	logger     *zap.Logger
}

// NewRealtimeBridge creates the bridge.
func NewRealtimeBridge(dispatcher events.Dispatcher, notifier realtime.Notifier, logger *zap.Logger) *RealtimeBridge {
	return &RealtimeBridge{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every event that mutates a watched table.
func (b *RealtimeBridge) RegisterHandlers() {
	if b.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketClaimed,
		events.EventTicketReleased,
		events.EventTicketResolved,
		events.EventTicketDismissed,
		events.EventTicketHeld,
	} {
		b.dispatcher.Subscribe(eventType, b.notifyTicketChanged)
	}
	b.dispatcher.Subscribe(events.EventTicketResolved, b.notifyScoresChanged)
	b.dispatcher.Subscribe(events.EventTicketMessageAdded, b.notifyMessagesChanged)
	b.dispatcher.Subscribe(events.EventSettingsUpdated, b.notifySettingsChanged)
}

func (b *RealtimeBridge) notifyTicketChanged(ctx context.Context, event events.Event) {
	b.notify(ctx, realtime.Change{Table: realtime.TableTickets, TicketID: event.TicketID}, event)
}

func (b *RealtimeBridge) notifyScoresChanged(ctx context.Context, event events.Event) {
	b.notify(ctx, realtime.Change{Table: realtime.TableScoreEntries, TicketID: event.TicketID}, event)
}

func (b *RealtimeBridge) notifyMessagesChanged(ctx context.Context, event events.Event) {
	b.notify(ctx, realtime.Change{Table: realtime.TableTicketMessages, TicketID: event.TicketID}, event)
}

func (b *RealtimeBridge) notifySettingsChanged(ctx context.Context, event events.Event) {
	b.notify(ctx, realtime.Change{Table: realtime.TableSettings}, event)
}

func (b *RealtimeBridge) notify(ctx context.Context, change realtime.Change, event events.Event) {
	if b.notifier == nil {
		return
	}
	if err := b.notifier.NotifyChanged(ctx, change); err != nil {
		// Best-effort: a missed notification only delays visibility until
		// the next poll.
		b.logger.Warn("realtime notify failed",
			zap.String("table", change.Table),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
