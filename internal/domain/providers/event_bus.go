package providers

import (
	"context"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to match events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.MatchEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.MatchEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelMatchUpdates is the channel for all match pipeline events
	EventChannelMatchUpdates = "match:updates"

	// EventChannelRequesterPrefix is the prefix for requester-specific channels
	EventChannelRequesterPrefix = "match:requester:"
)

// GetRequesterChannel returns the channel name for a specific requester
func GetRequesterChannel(requesterID string) string {
	return EventChannelRequesterPrefix + requesterID
}
