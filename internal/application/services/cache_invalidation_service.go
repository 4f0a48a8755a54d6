package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
)

// CacheInvalidationService evicts cached info content when any replica
// announces an edit on the directory updates channel
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelDirectoryUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to directory updates: %w", err)
	}

	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	<-s.done
	observability.GetLogger().Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.DirectoryEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent drops the cache key an event makes stale. Catalog listings
// are never cached, so master events need no eviction.
func (s *CacheInvalidationService) handleEvent(event *entities.DirectoryEvent) {
	var key string
	switch event.EventType {
	case entities.DirectoryEventInfoPageUpdated:
		if event.Slug == "" {
			return
		}
		key = providers.InfoPageCacheKey(event.Slug)
	case entities.DirectoryEventFAQAdded:
		key = providers.FAQCacheKey
	default:
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	logger := observability.GetLogger().With().
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Str("key", key).
		Logger()

	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate cache")
		return
	}
	logger.Debug().Msg("invalidated cache")
}
