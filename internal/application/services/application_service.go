package services

import (
	"context"
	"strings"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// ApplicationService accepts completed master applications
type ApplicationService struct {
	masters  repositories.MasterRepository
	notifier *NotificationService
	events   *EventPublisher
}

// NewApplicationService creates a new application service
func NewApplicationService(masters repositories.MasterRepository, notifier *NotificationService, events *EventPublisher) *ApplicationService {
	return &ApplicationService{
		masters:  masters,
		notifier: notifier,
		events:   events,
	}
}

// Submit stores the application in status new and tells the administrators.
// senderHandle is the submitter's chat username, possibly empty. Admin
// notification is best effort and never undoes the insert.
func (s *ApplicationService) Submit(ctx context.Context, app *entities.MasterApplication, senderHandle string) (int64, error) {
	app.Name = strings.TrimSpace(app.Name)
	if app.Name == "" {
		return 0, apperrors.NewValidationError("name is required")
	}
	if app.PriceMin != nil && app.PriceMax != nil && *app.PriceMin > *app.PriceMax {
		app.PriceMin, app.PriceMax = app.PriceMax, app.PriceMin
	}

	id, err := s.masters.CreateApplication(ctx, app)
	if err != nil {
		return 0, err
	}

	s.notifier.NotifyNewApplication(ctx, id, app.TelegramID, senderHandle)
	s.events.Publish(ctx, entities.NewDirectoryEvent(entities.DirectoryEventApplicationSubmitted, map[string]interface{}{
		"category": app.Category,
	}).ForMaster(id))

	return id, nil
}
