package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
	"github.com/Anycrabs/telegram-masters-bot/tests/mocks"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNotificationService_NotifyNewApplication(t *testing.T) {
	messenger := mocks.NewFakeMessenger()
	notifier := services.NewNotificationService(messenger, config.NewAdminSet(1, 2), nil)

	notifier.NotifyNewApplication(context.Background(), 42, 555, "ivan")

	for _, adminID := range []int64{1, 2} {
		msg, ok := messenger.Last(adminID)
		require.True(t, ok, "admin %d not notified", adminID)
		assert.Equal(t, "Новая заявка мастера #42 от @ivan.", msg.Text)
	}
}

func TestNotificationService_NotifyNewApplication_FallsBackToID(t *testing.T) {
	messenger := mocks.NewFakeMessenger()
	notifier := services.NewNotificationService(messenger, config.NewAdminSet(1), nil)

	notifier.NotifyNewApplication(context.Background(), 3, 555, "")

	msg, ok := messenger.Last(1)
	require.True(t, ok)
	assert.Equal(t, "Новая заявка мастера #3 от @555.", msg.Text)
}

func TestNotificationService_FailuresAreSwallowed(t *testing.T) {
	messenger := mocks.NewFakeMessenger()
	messenger.FailFor[1] = true
	messenger.Err = errors.New("Forbidden: bot was blocked by the user")
	notifier := services.NewNotificationService(messenger, config.NewAdminSet(1, 2), nil)

	notifier.NotifyNewApplication(context.Background(), 3, 555, "ivan")

	assert.Empty(t, messenger.To(1))
	assert.Len(t, messenger.To(2), 1)
}

func TestNotificationService_NotifyStatusChanged(t *testing.T) {
	tests := []struct {
		name   string
		master *entities.Master
		want   string
	}{
		{
			name:   "approved",
			master: &entities.Master{ID: 1, TelegramID: int64Ptr(900), Status: entities.MasterStatusApproved},
			want:   "Ваша заявка мастера одобрена! Вы теперь видны в каталоге.",
		},
		{
			name:   "rejected",
			master: &entities.Master{ID: 1, TelegramID: int64Ptr(900), Status: entities.MasterStatusRejected},
			want:   "К сожалению, ваша заявка мастера была отклонена.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messenger := mocks.NewFakeMessenger()
			notifier := services.NewNotificationService(messenger, config.NewAdminSet(), nil)

			notifier.NotifyStatusChanged(context.Background(), tt.master)

			msg, ok := messenger.Last(900)
			require.True(t, ok)
			assert.Equal(t, tt.want, msg.Text)
		})
	}
}

func TestNotificationService_NotifyStatusChanged_NoOwner(t *testing.T) {
	messenger := mocks.NewFakeMessenger()
	notifier := services.NewNotificationService(messenger, config.NewAdminSet(), nil)

	notifier.NotifyStatusChanged(context.Background(), &entities.Master{ID: 1, Status: entities.MasterStatusApproved})
	notifier.NotifyStatusChanged(context.Background(), &entities.Master{ID: 2, TelegramID: int64Ptr(5), Status: entities.MasterStatusInactive})

	assert.Empty(t, messenger.Sent())
}
