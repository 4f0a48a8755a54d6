package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
	"github.com/Anycrabs/telegram-masters-bot/pkg/utils"
)

// Notification kinds used as the metric attribute
const (
	notificationKindNewApplication = "new_application"
	notificationKindStatusChanged  = "status_changed"
)

const (
	masterApprovedText = "Ваша заявка мастера одобрена! Вы теперь видны в каталоге."
	masterRejectedText = "К сожалению, ваша заявка мастера была отклонена."
)

// NotificationService delivers fire-and-forget chat notifications. None of
// its methods return an error: failures are logged and counted only.
type NotificationService struct {
	messenger providers.Messenger
	admins    config.AdminSet
	metrics   *observability.Metrics
}

// NewNotificationService creates a new notification service
func NewNotificationService(messenger providers.Messenger, admins config.AdminSet, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		messenger: messenger,
		admins:    admins,
		metrics:   metrics,
	}
}

// NotifyNewApplication tells every administrator about a submitted
// application. The sender is shown by handle, or by numeric id without one.
func (n *NotificationService) NotifyNewApplication(ctx context.Context, masterID, senderID int64, senderHandle string) {
	from := senderHandle
	if from == "" {
		from = strconv.FormatInt(senderID, 10)
	}
	text := fmt.Sprintf("Новая заявка мастера #%d от @%s.", masterID, utils.Escape(from))

	for _, adminID := range n.admins.IDs() {
		n.send(ctx, adminID, text, notificationKindNewApplication)
	}
}

// NotifyStatusChanged tells the owner of a master about a moderation
// decision. Masters without an owning chat identity are skipped.
func (n *NotificationService) NotifyStatusChanged(ctx context.Context, master *entities.Master) {
	if master == nil || master.TelegramID == nil {
		return
	}

	var text string
	switch master.Status {
	case entities.MasterStatusApproved:
		text = masterApprovedText
	case entities.MasterStatusRejected:
		text = masterRejectedText
	default:
		return
	}

	n.send(ctx, *master.TelegramID, text, notificationKindStatusChanged)
}

func (n *NotificationService) send(ctx context.Context, chatID int64, text, kind string) {
	if _, err := n.messenger.SendText(ctx, chatID, text, nil); err != nil {
		observability.RecordNotificationFailure(ctx, n.metrics, kind)
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int64("chat_id", chatID).
			Str("kind", kind).
			Msg("notification not delivered")
	}
}
