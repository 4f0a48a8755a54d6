package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
)

// CachedInfoAdapter wraps an InfoRepository with caching. Writes go to the
// store first and then drop the affected key.
type CachedInfoAdapter struct {
	adapter repositories.InfoRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedInfoAdapter creates a new cached info adapter
func NewCachedInfoAdapter(adapter repositories.InfoRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.InfoRepository {
	return &CachedInfoAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	infoPageTTL = 600
	faqListTTL  = 600
)

// GetPage retrieves an info page with caching
func (a *CachedInfoAdapter) GetPage(ctx context.Context, slug string) (*entities.InfoPage, error) {
	key := providers.InfoPageCacheKey(slug)

	var page entities.InfoPage
	if a.fromCache(ctx, key, &page) {
		return &page, nil
	}

	start := time.Now()
	fresh, err := a.adapter.GetPage(ctx, slug)
	observability.RecordDBMetric(ctx, a.metrics, "get_page", time.Since(start))
	if err != nil {
		return nil, err
	}

	a.toCache(ctx, key, fresh, infoPageTTL)
	return fresh, nil
}

// UpsertPage writes through and invalidates the page
func (a *CachedInfoAdapter) UpsertPage(ctx context.Context, page *entities.InfoPage) error {
	if err := a.adapter.UpsertPage(ctx, page); err != nil {
		return err
	}
	a.invalidate(ctx, providers.InfoPageCacheKey(page.Slug))
	return nil
}

// ListFAQ retrieves the FAQ with caching
func (a *CachedInfoAdapter) ListFAQ(ctx context.Context) ([]*entities.FAQEntry, error) {
	var entries []*entities.FAQEntry
	if a.fromCache(ctx, providers.FAQCacheKey, &entries) {
		return entries, nil
	}

	start := time.Now()
	fresh, err := a.adapter.ListFAQ(ctx)
	observability.RecordDBMetric(ctx, a.metrics, "list_faq", time.Since(start))
	if err != nil {
		return nil, err
	}

	a.toCache(ctx, providers.FAQCacheKey, fresh, faqListTTL)
	return fresh, nil
}

// AddFAQ writes through and invalidates the FAQ list
func (a *CachedInfoAdapter) AddFAQ(ctx context.Context, entry *entities.FAQEntry) error {
	if err := a.adapter.AddFAQ(ctx, entry); err != nil {
		return err
	}
	a.invalidate(ctx, providers.FAQCacheKey)
	return nil
}

func (a *CachedInfoAdapter) fromCache(ctx context.Context, key string, dst any) bool {
	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, a.metrics, key)
		return false
	}
	if err := json.Unmarshal(cached, dst); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		observability.RecordCacheMiss(ctx, a.metrics, key)
		return false
	}
	observability.RecordCacheHit(ctx, a.metrics, key)
	return true
}

func (a *CachedInfoAdapter) toCache(ctx context.Context, key string, value any, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache value")
	}
}

func (a *CachedInfoAdapter) invalidate(ctx context.Context, key string) {
	if err := a.cache.Delete(ctx, key); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to invalidate cache")
	}
}
