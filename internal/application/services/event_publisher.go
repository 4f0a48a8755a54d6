package services

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
)

// EventPublisher publishes directory events on a best-effort basis. A nil
// publisher or one without a bus drops events silently.
type EventPublisher struct {
	bus providers.EventBus
}

// NewEventPublisher wraps bus; bus may be nil when no bus is configured
func NewEventPublisher(bus providers.EventBus) *EventPublisher {
	return &EventPublisher{bus: bus}
}

// Publish sends event to the directory updates channel
func (p *EventPublisher) Publish(ctx context.Context, event *entities.DirectoryEvent) {
	if p == nil || p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, providers.EventChannelDirectoryUpdates, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("event_type", string(event.EventType)).
			Msg("failed to publish directory event")
	}
}
