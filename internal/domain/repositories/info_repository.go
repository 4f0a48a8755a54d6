package repositories

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
)

// InfoRepository defines the interface for info pages and FAQ
type InfoRepository interface {
	// GetPage retrieves an info page by slug
	GetPage(ctx context.Context, slug string) (*entities.InfoPage, error)

	// UpsertPage creates the page or overwrites its title and content
	UpsertPage(ctx context.Context, page *entities.InfoPage) error

	// ListFAQ retrieves visible FAQ entries, oldest first
	ListFAQ(ctx context.Context) ([]*entities.FAQEntry, error)

	// AddFAQ appends a visible FAQ entry
	AddFAQ(ctx context.Context, entry *entities.FAQEntry) error
}
