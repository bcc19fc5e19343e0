package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes change notifications on one Redis pub/sub channel
// per table. Dashboard processes subscribe and re-fetch on every message.
type RedisNotifier struct {
	client        *redis.Client
	channelPrefix string
}

// NewRedisNotifier creates a notifier on the given client.
func NewRedisNotifier(client *redis.Client, channelPrefix string) *RedisNotifier {
	return &RedisNotifier{client: client, channelPrefix: channelPrefix}
}

// NotifyChanged publishes the change to the table's channel.
func (n *RedisNotifier) NotifyChanged(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channelPrefix+change.Table, payload).Err()
}

// Subscribe delivers changes for one table until ctx is cancelled. Messages
// that fail to decode are dropped; subscribers only need the hint to
// re-fetch.
func (n *RedisNotifier) Subscribe(ctx context.Context, table string) (<-chan Change, func() error) {
	sub := n.client.Subscribe(ctx, n.channelPrefix+table)
	out := make(chan Change)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, sub.Close
}
