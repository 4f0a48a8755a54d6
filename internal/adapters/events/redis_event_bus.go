package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	redisclient "github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/redis"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
)

// listenerBuffer bounds how far a slow listener may fall behind before
// events addressed to it are dropped.
const listenerBuffer = 100

type listener chan *entities.DirectoryEvent

// topic is one Redis channel shared by all local listeners
type topic struct {
	pubsub    *redis.PubSub
	listeners map[listener]struct{}
}

// RedisEventBus fans directory events out between bot replicas over Redis
// Pub/Sub. Each Redis channel is subscribed once per process however many
// local listeners it has.
type RedisEventBus struct {
	client *redisclient.Client

	mu     sync.RWMutex
	topics map[string]*topic

	done   context.Context
	cancel context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	done, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		topics: make(map[string]*topic),
		done:   done,
		cancel: cancel,
	}
}

// Publish encodes event as JSON and publishes it on channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.DirectoryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode directory event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish directory event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Int64("master_id", event.MasterID).
		Msg("published directory event")
	return nil
}

// Subscribe registers a local listener on channel. The returned channel is
// closed when ctx ends, the channel is unsubscribed or the bus is closed.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DirectoryEvent, error) {
	b.mu.Lock()
	t, ok := b.topics[channel]
	if !ok {
		pubsub := b.client.Client().Subscribe(b.done, channel)
		if _, err := pubsub.Receive(ctx); err != nil {
			b.mu.Unlock()
			_ = pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		t = &topic{pubsub: pubsub, listeners: make(map[listener]struct{})}
		b.topics[channel] = t
		go b.forward(channel, t)
	}

	l := make(listener, listenerBuffer)
	t.listeners[l] = struct{}{}
	count := len(t.listeners)
	b.mu.Unlock()

	observability.LoggerFromContext(ctx).Info().
		Str("channel", channel).
		Int("listeners", count).
		Msg("subscribed to directory events")

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done.Done():
		}
		b.detach(channel, l)
	}()

	return l, nil
}

// forward decodes messages of one topic and hands them to its listeners
func (b *RedisEventBus) forward(channel string, t *topic) {
	logger := observability.GetLogger().With().Str("channel", channel).Logger()

	messages := t.pubsub.Channel()
	for {
		select {
		case <-b.done.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			event, err := decodeEvent(msg.Payload)
			if err != nil {
				logger.Warn().Err(err).Msg("dropping malformed directory event")
				continue
			}

			b.mu.RLock()
			for l := range t.listeners {
				select {
				case l <- event:
				default:
					logger.Warn().Str("event_id", event.ID).Msg("listener is full, dropping directory event")
				}
			}
			b.mu.RUnlock()
		}
	}
}

func decodeEvent(payload string) (*entities.DirectoryEvent, error) {
	var event entities.DirectoryEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	if event.EventType == "" {
		return nil, errors.New("event type is empty")
	}
	return &event, nil
}

// detach removes one listener and drops the Redis subscription once the
// topic has no listeners left.
func (b *RedisEventBus) detach(channel string, l listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[channel]
	if !ok {
		return
	}
	if _, ok := t.listeners[l]; !ok {
		return
	}

	delete(t.listeners, l)
	close(l)

	if len(t.listeners) == 0 {
		delete(b.topics, channel)
		_ = t.pubsub.Close()
	}
}

// drop closes every listener of channel and its Redis subscription
func (b *RedisEventBus) drop(channel string) error {
	b.mu.Lock()
	t, ok := b.topics[channel]
	if ok {
		delete(b.topics, channel)
		for l := range t.listeners {
			close(l)
		}
	}
	b.mu.Unlock()

	if !ok {
		return nil
	}
	if err := t.pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	return nil
}

// Unsubscribe drops every listener of a channel
func (b *RedisEventBus) Unsubscribe(_ context.Context, channel string) error {
	return b.drop(channel)
}

// Close stops forwarding and closes all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	channels := make([]string, 0, len(b.topics))
	for channel := range b.topics {
		channels = append(channels, channel)
	}
	b.mu.RUnlock()

	var errs []error
	for _, channel := range channels {
		if err := b.drop(channel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
