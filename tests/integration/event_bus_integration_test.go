//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/adapters/database"
	"github.com/Anycrabs/telegram-masters-bot/internal/adapters/events"
	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
)

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	requireEnv(t, "TEST_REDIS_HOST")

	eventBus := events.NewRedisEventBus(newTestRedisClient(t))
	defer eventBus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1, err := eventBus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewDirectoryEvent(entities.DirectoryEventStatusChanged, map[string]interface{}{"status": "approved"}).ForMaster(7)
	require.NoError(t, eventBus.Publish(context.Background(), providers.EventChannelDirectoryUpdates, event))

	assert.Equal(t, event.ID, waitForDirectoryEvent(t, sub1).ID)
	assert.Equal(t, event.ID, waitForDirectoryEvent(t, sub2).ID)
}

func TestRatingService_SubmitReview_PublishesEvent(t *testing.T) {
	requireEnv(t, "TEST_DB_HOST", "TEST_REDIS_HOST")

	client := newTestPostgresClient(t)
	eventBus := events.NewRedisEventBus(newTestRedisClient(t))
	defer eventBus.Close()

	masters := database.NewMasterAdapter(client)
	rating := services.NewRatingService(database.NewReviewAdapter(client), services.NewEventPublisher(eventBus))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := masters.CreateApplication(ctx, &entities.MasterApplication{Name: "Олег", Phone: "+7", Category: "Ремонт", Description: "Плитка"})
	require.NoError(t, err)
	require.NoError(t, masters.SetStatus(ctx, id, entities.MasterStatusApproved))

	ch, err := eventBus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	_, err = rating.SubmitReview(ctx, services.ReviewInput{MasterID: id, UserID: 42, Rating: 5, Text: "Отлично"})
	require.NoError(t, err)

	received := waitForDirectoryEvent(t, ch)
	assert.Equal(t, entities.DirectoryEventReviewSubmitted, received.EventType)
	assert.Equal(t, id, received.MasterID)
	assert.EqualValues(t, 1, received.ChangedFields["reviews_count"])
}
