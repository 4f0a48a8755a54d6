package services

import (
	"context"
	"fmt"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// ModerationService moves master applications through their statuses.
// Every operation checks the actor against the admin set before touching
// the store.
type ModerationService struct {
	masters  repositories.MasterRepository
	admins   config.AdminSet
	notifier *NotificationService
	events   *EventPublisher
}

// NewModerationService creates a new moderation service
func NewModerationService(
	masters repositories.MasterRepository,
	admins config.AdminSet,
	notifier *NotificationService,
	events *EventPublisher,
) *ModerationService {
	return &ModerationService{
		masters:  masters,
		admins:   admins,
		notifier: notifier,
		events:   events,
	}
}

// IsAdmin reports whether userID may moderate
func (s *ModerationService) IsAdmin(userID int64) bool {
	return s.admins.Contains(userID)
}

func (s *ModerationService) authorize(actorID int64) error {
	if !s.admins.Contains(actorID) {
		return apperrors.NewPermissionDeniedError("admin access required")
	}
	return nil
}

// ListPending returns applications awaiting moderation, oldest first
func (s *ModerationService) ListPending(ctx context.Context, actorID int64) ([]*entities.Master, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}
	return s.masters.ListByStatus(ctx, entities.MasterStatusNew)
}

// ListAll returns every master, newest first, optionally of one category
func (s *ModerationService) ListAll(ctx context.Context, actorID int64, category string) ([]*entities.Master, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}
	return s.masters.ListAll(ctx, category)
}

// Approve makes the master visible in the catalog
func (s *ModerationService) Approve(ctx context.Context, actorID, masterID int64) (*entities.Master, error) {
	return s.setStatus(ctx, actorID, masterID, entities.MasterStatusApproved)
}

// Reject declines the application
func (s *ModerationService) Reject(ctx context.Context, actorID, masterID int64) (*entities.Master, error) {
	return s.setStatus(ctx, actorID, masterID, entities.MasterStatusRejected)
}

// setStatus overwrites the status and notifies the owner. Repeating the
// current status is a plain overwrite and notifies again.
func (s *ModerationService) setStatus(ctx context.Context, actorID, masterID int64, status entities.MasterStatus) (*entities.Master, error) {
	if err := s.authorize(actorID); err != nil {
		return nil, err
	}

	master, err := s.masters.GetByID(ctx, masterID)
	if err != nil {
		return nil, err
	}

	if !master.Status.CanTransitionTo(status) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("master #%d cannot move from %s to %s", masterID, master.Status, status))
	}

	if err := s.masters.SetStatus(ctx, masterID, status); err != nil {
		return nil, err
	}

	previous := master.Status
	master.Status = status

	observability.LoggerFromContext(ctx).Info().
		Int64("master_id", masterID).
		Int64("admin_id", actorID).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("master status changed")

	s.notifier.NotifyStatusChanged(ctx, master)
	s.events.Publish(ctx, entities.NewDirectoryEvent(entities.DirectoryEventStatusChanged, map[string]interface{}{
		"status": string(status),
	}).ForMaster(masterID))

	return master, nil
}
