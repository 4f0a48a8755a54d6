package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// InfoAdapter implements the InfoRepository interface
type InfoAdapter struct {
	client *postgres.Client
}

// NewInfoAdapter creates a new info adapter
func NewInfoAdapter(client *postgres.Client) repositories.InfoRepository {
	return &InfoAdapter{client: client}
}

// GetPage retrieves an info page by slug
func (a *InfoAdapter) GetPage(ctx context.Context, slug string) (*entities.InfoPage, error) {
	page := &entities.InfoPage{}
	err := a.client.DB().GetContext(ctx, page,
		`SELECT slug, title, content, updated_at FROM info_pages WHERE slug = $1`,
		slug,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("info page %q not found", slug))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get info page", err)
	}

	return page, nil
}

// UpsertPage creates or overwrites an info page
func (a *InfoAdapter) UpsertPage(ctx context.Context, page *entities.InfoPage) error {
	query := `
		INSERT INTO info_pages (slug, title, content, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title,
		    content = EXCLUDED.content,
		    updated_at = NOW()
		RETURNING updated_at
	`

	err := a.client.DB().QueryRowxContext(ctx, query, page.Slug, page.Title, page.Content).Scan(&page.UpdatedAt)
	if err != nil {
		return apperrors.NewInternalError("failed to save info page", err)
	}

	return nil
}

// ListFAQ retrieves visible FAQ entries in insertion order
func (a *InfoAdapter) ListFAQ(ctx context.Context) ([]*entities.FAQEntry, error) {
	query := `
		SELECT id, question, answer, is_visible, created_at, updated_at
		FROM faq
		WHERE is_visible = TRUE
		ORDER BY id ASC
	`

	entries := []*entities.FAQEntry{}
	if err := a.client.DB().SelectContext(ctx, &entries, query); err != nil {
		return nil, apperrors.NewInternalError("failed to list faq", err)
	}

	return entries, nil
}

// AddFAQ appends a visible FAQ entry
func (a *InfoAdapter) AddFAQ(ctx context.Context, entry *entities.FAQEntry) error {
	query := `
		INSERT INTO faq (question, answer, is_visible)
		VALUES ($1, $2, TRUE)
		RETURNING id, is_visible, created_at, updated_at
	`

	err := a.client.DB().QueryRowxContext(ctx, query, entry.Question, entry.Answer).
		Scan(&entry.ID, &entry.IsVisible, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return apperrors.NewInternalError("failed to add faq entry", err)
	}

	return nil
}
