package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
	"github.com/Anycrabs/telegram-masters-bot/tests/mocks"
)

func TestCachedInfoAdapter_GetPage_CachesAfterFirstRead(t *testing.T) {
	repo := new(mocks.MockInfoRepository)
	cache := mocks.NewMockCacheProvider()
	adapter := NewCachedInfoAdapter(repo, cache, nil)

	page := &entities.InfoPage{Slug: "about", Title: "О нас", Content: "text"}
	repo.On("GetPage", mock.Anything, "about").Return(page, nil).Once()

	first, err := adapter.GetPage(context.Background(), "about")
	require.NoError(t, err)
	second, err := adapter.GetPage(context.Background(), "about")
	require.NoError(t, err)

	assert.Equal(t, "О нас", first.Title)
	assert.Equal(t, "О нас", second.Title)
	assert.True(t, cache.Has(providers.InfoPageCacheKey("about")))
	repo.AssertExpectations(t)
}

func TestCachedInfoAdapter_GetPage_NotFoundIsNotCached(t *testing.T) {
	repo := new(mocks.MockInfoRepository)
	cache := mocks.NewMockCacheProvider()
	adapter := NewCachedInfoAdapter(repo, cache, nil)

	repo.On("GetPage", mock.Anything, "nope").Return(nil, apperrors.NewNotFoundError("nope")).Twice()

	_, err := adapter.GetPage(context.Background(), "nope")
	assert.True(t, apperrors.IsNotFound(err))
	_, err = adapter.GetPage(context.Background(), "nope")
	assert.True(t, apperrors.IsNotFound(err))

	assert.Equal(t, 0, cache.Sets())
	repo.AssertExpectations(t)
}

func TestCachedInfoAdapter_UpsertPage_Invalidates(t *testing.T) {
	repo := new(mocks.MockInfoRepository)
	cache := mocks.NewMockCacheProvider()
	adapter := NewCachedInfoAdapter(repo, cache, nil)

	require.NoError(t, cache.Set(context.Background(), providers.InfoPageCacheKey("about"), []byte(`{"slug":"about","title":"old"}`), 600))

	page := &entities.InfoPage{Slug: "about", Title: "new", Content: "c"}
	repo.On("UpsertPage", mock.Anything, page).Return(nil)
	repo.On("GetPage", mock.Anything, "about").Return(page, nil).Once()

	require.NoError(t, adapter.UpsertPage(context.Background(), page))
	assert.Contains(t, cache.Deleted(), providers.InfoPageCacheKey("about"))

	got, err := adapter.GetPage(context.Background(), "about")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
}

func TestCachedInfoAdapter_UpsertPage_FailureKeepsCache(t *testing.T) {
	repo := new(mocks.MockInfoRepository)
	cache := mocks.NewMockCacheProvider()
	adapter := NewCachedInfoAdapter(repo, cache, nil)

	page := &entities.InfoPage{Slug: "about"}
	repo.On("UpsertPage", mock.Anything, page).Return(apperrors.NewInternalError("db down", nil))

	err := adapter.UpsertPage(context.Background(), page)
	assert.Error(t, err)
	assert.Empty(t, cache.Deleted())
}

func TestCachedInfoAdapter_FAQ(t *testing.T) {
	repo := new(mocks.MockInfoRepository)
	cache := mocks.NewMockCacheProvider()
	adapter := NewCachedInfoAdapter(repo, cache, nil)

	entries := []*entities.FAQEntry{{ID: 1, Question: "Q", Answer: "A", IsVisible: true}}
	repo.On("ListFAQ", mock.Anything).Return(entries, nil).Once()

	got, err := adapter.ListFAQ(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = adapter.ListFAQ(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	repo.AssertExpectations(t)

	entry := &entities.FAQEntry{Question: "Q2", Answer: "A2"}
	repo.On("AddFAQ", mock.Anything, entry).Return(nil)
	require.NoError(t, adapter.AddFAQ(context.Background(), entry))
	assert.False(t, cache.Has(providers.FAQCacheKey))
}

func TestCachedInfoAdapter_CacheDownFallsThrough(t *testing.T) {
	repo := new(mocks.MockInfoRepository)
	cache := mocks.NewMockCacheProvider()
	cache.FailWith = mocks.ErrCacheDown
	adapter := NewCachedInfoAdapter(repo, cache, nil)

	repo.On("ListFAQ", mock.Anything).Return([]*entities.FAQEntry{}, nil)

	got, err := adapter.ListFAQ(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
