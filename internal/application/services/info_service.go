package services

import (
	"context"
	"strings"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// InfoService serves static pages and the FAQ and lets admins edit them
type InfoService struct {
	repo   repositories.InfoRepository
	admins config.AdminSet
	events *EventPublisher
}

// NewInfoService creates a new info service
func NewInfoService(repo repositories.InfoRepository, admins config.AdminSet, events *EventPublisher) *InfoService {
	return &InfoService{
		repo:   repo,
		admins: admins,
		events: events,
	}
}

// GetPage returns the page with slug, NOT_FOUND when it was never created
func (s *InfoService) GetPage(ctx context.Context, slug string) (*entities.InfoPage, error) {
	return s.repo.GetPage(ctx, slug)
}

// UpsertPage creates or overwrites a page. Admin only.
func (s *InfoService) UpsertPage(ctx context.Context, actorID int64, slug, title, content string) (*entities.InfoPage, error) {
	if !s.admins.Contains(actorID) {
		return nil, apperrors.NewPermissionDeniedError("admin access required")
	}

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.NewValidationError("slug is required")
	}

	page := &entities.InfoPage{
		Slug:    slug,
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
	if err := s.repo.UpsertPage(ctx, page); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, entities.NewDirectoryEvent(entities.DirectoryEventInfoPageUpdated, nil).ForSlug(slug))
	return page, nil
}

// ListFAQ returns visible FAQ entries, oldest first
func (s *InfoService) ListFAQ(ctx context.Context) ([]*entities.FAQEntry, error) {
	return s.repo.ListFAQ(ctx)
}

// AddFAQ appends a visible question/answer pair. Admin only.
func (s *InfoService) AddFAQ(ctx context.Context, actorID int64, question, answer string) (*entities.FAQEntry, error) {
	if !s.admins.Contains(actorID) {
		return nil, apperrors.NewPermissionDeniedError("admin access required")
	}

	entry := &entities.FAQEntry{
		Question:  strings.TrimSpace(question),
		Answer:    strings.TrimSpace(answer),
		IsVisible: true,
	}
	if entry.Question == "" || entry.Answer == "" {
		return nil, apperrors.NewValidationError("question and answer are required")
	}

	if err := s.repo.AddFAQ(ctx, entry); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, entities.NewDirectoryEvent(entities.DirectoryEventFAQAdded, map[string]interface{}{
		"faq_id": entry.ID,
	}))
	return entry, nil
}
