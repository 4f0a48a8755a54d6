package mocks

import (
	"context"
	"sync"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
)

// MockEventBus is an in-process EventBus that records published events
type MockEventBus struct {
	mu          sync.Mutex
	published   []*entities.DirectoryEvent
	subscribers map[string][]chan *entities.DirectoryEvent

	// PublishErr makes Publish fail when set
	PublishErr error
}

// NewMockEventBus creates an empty bus
func NewMockEventBus() *MockEventBus {
	return &MockEventBus{subscribers: make(map[string][]chan *entities.DirectoryEvent)}
}

var _ providers.EventBus = (*MockEventBus)(nil)

func (b *MockEventBus) Publish(ctx context.Context, channel string, event *entities.DirectoryEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PublishErr != nil {
		return b.PublishErr
	}
	b.published = append(b.published, event)
	for _, ch := range b.subscribers[channel] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DirectoryEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.DirectoryEvent, 16)
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	return ch, nil
}

func (b *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers[channel] {
		close(ch)
	}
	delete(b.subscribers, channel)
	return nil
}

func (b *MockEventBus) Close() error {
	b.mu.Lock()
	channels := make([]string, 0, len(b.subscribers))
	for channel := range b.subscribers {
		channels = append(channels, channel)
	}
	b.mu.Unlock()
	for _, channel := range channels {
		_ = b.Unsubscribe(context.Background(), channel)
	}
	return nil
}

// Published returns the recorded events
func (b *MockEventBus) Published() []*entities.DirectoryEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.DirectoryEvent(nil), b.published...)
}
