package bot

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// InfoReader defines the info operations used by the handler.
type InfoReader interface {
	GetPage(ctx context.Context, slug string) (*entities.InfoPage, error)
	ListFAQ(ctx context.Context) ([]*entities.FAQEntry, error)
}

// InfoHandler shows the static pages and the FAQ
type InfoHandler struct {
	info      InfoReader
	messenger providers.Messenger
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(info InfoReader, messenger providers.Messenger) *InfoHandler {
	return &InfoHandler{
		info:      info,
		messenger: messenger,
	}
}

// About shows the "about" page
func (h *InfoHandler) About(ctx context.Context, u *Update) error {
	return h.page(ctx, u, entities.InfoSlugAbout, "Информация о нас пока не заполнена.")
}

// Contacts shows the "contacts" page
func (h *InfoHandler) Contacts(ctx context.Context, u *Update) error {
	return h.page(ctx, u, entities.InfoSlugContacts, "Контакты пока не заполнены.")
}

// FAQ lists the visible FAQ entries
func (h *InfoHandler) FAQ(ctx context.Context, u *Update) error {
	entries, err := h.info.ListFAQ(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return notice("FAQ пока пустой.")
	}
	return sendChunked(ctx, h.messenger, u.ChatID, RenderFAQ(entries), nil)
}

func (h *InfoHandler) page(ctx context.Context, u *Update, slug, missing string) error {
	page, err := h.info.GetPage(ctx, slug)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return notice(missing)
		}
		return err
	}
	return sendChunked(ctx, h.messenger, u.ChatID, RenderPage(page), nil)
}
