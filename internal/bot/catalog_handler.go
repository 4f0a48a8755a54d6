package bot

import (
	"context"
	"fmt"

	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
	"github.com/Anycrabs/telegram-masters-bot/pkg/utils"
)

const catalogHint = "Чтобы посмотреть карточку мастера отправьте в чат его ID или нажмите Смотреть мастеров\n Например: #1"

// DirectoryService defines the catalog operations used by the handler.
type DirectoryService interface {
	List(ctx context.Context, category string, sortBy repositories.SortKey, limit int) ([]*entities.Master, error)
	View(ctx context.Context, category string, sortBy repositories.SortKey, index int) (*services.Card, error)
	CardByID(ctx context.Context, id int64) (*services.Card, error)
}

// CatalogHandler serves the master catalog: listings with filters and
// navigable cards.
type CatalogHandler struct {
	directory DirectoryService
	messenger providers.Messenger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(directory DirectoryService, messenger providers.Messenger) *CatalogHandler {
	return &CatalogHandler{
		directory: directory,
		messenger: messenger,
	}
}

// Entry shows the top of the catalog with default filters
func (h *CatalogHandler) Entry(ctx context.Context, u *Update) error {
	category, sortBy := repositories.AllCategories, repositories.SortByRating

	masters, err := h.directory.List(ctx, category, sortBy, services.EntryListLimit)
	if err != nil {
		return err
	}
	if len(masters) == 0 {
		return notice("Пока нет одобренных мастеров. Попробуйте позже.")
	}

	text := RenderList(fmt.Sprintf("Каталог мастеров (топ %d):", services.EntryListLimit), masters)
	if _, err := h.messenger.SendText(ctx, u.ChatID, text, CatalogFilters(category, sortBy)); err != nil {
		return err
	}
	_, err = h.messenger.SendText(ctx, u.ChatID, catalogHint, nil)
	return err
}

// List re-renders a listing in place after a filter switch
func (h *CatalogHandler) List(ctx context.Context, u *Update, cmd Command) error {
	masters, err := h.directory.List(ctx, cmd.Category, cmd.SortBy, services.EntryListLimit)
	if err != nil {
		return err
	}

	var text string
	switch {
	case len(masters) > 0:
		text = RenderList("Каталог мастеров — "+utils.Escape(cmd.Category), masters)
	case cmd.Category != repositories.AllCategories:
		text = fmt.Sprintf("Мастера в категории «%s» пока не найдены.", utils.Escape(cmd.Category))
	default:
		text = "Подходящих мастеров не найдено."
	}

	markup := CatalogFilters(cmd.Category, cmd.SortBy)
	if u.MessageID != 0 && !u.MessageHasPhoto {
		err := h.messenger.EditText(ctx, u.ChatID, u.MessageID, text, markup)
		if err == nil {
			return nil
		}
		observability.LoggerFromContext(ctx).Debug().Err(err).Msg("listing edit failed, sending new message")
	}
	_, err = h.messenger.SendText(ctx, u.ChatID, text, markup)
	return err
}

// Open sends the card at cmd.Index as a new message
func (h *CatalogHandler) Open(ctx context.Context, u *Update, cmd Command) error {
	card, err := h.view(ctx, cmd)
	if err != nil {
		return err
	}
	return h.sendCard(ctx, u.ChatID, card)
}

// Navigate moves between cards, editing the current message when the media
// type allows it
func (h *CatalogHandler) Navigate(ctx context.Context, u *Update, cmd Command) error {
	card, err := h.view(ctx, cmd)
	if err != nil {
		return err
	}
	if u.MessageID == 0 {
		return h.sendCard(ctx, u.ChatID, card)
	}

	markup := CardKeyboard(card)
	caption, photo := cardCaption(card)
	logger := observability.LoggerFromContext(ctx)

	switch {
	case photo && u.MessageHasPhoto:
		err = h.messenger.EditPhoto(ctx, u.ChatID, u.MessageID, *card.Master.PhotoFileID, caption, markup)
	case !photo && !u.MessageHasPhoto:
		err = h.messenger.EditText(ctx, u.ChatID, u.MessageID, RenderCard(card), markup)
	default:
		// text and photo messages cannot be edited into each other
		return h.sendCard(ctx, u.ChatID, card)
	}
	if err != nil {
		logger.Debug().Err(err).Int64("master_id", card.Master.ID).Msg("card edit failed, sending new message")
		return h.sendCard(ctx, u.ChatID, card)
	}
	return nil
}

// ByID opens the card of the master referenced as "#<id>"
func (h *CatalogHandler) ByID(ctx context.Context, u *Update, id int64) error {
	card, err := h.directory.CardByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return notice("Мастер не найден.")
		}
		return err
	}
	return h.sendCard(ctx, u.ChatID, card)
}

func (h *CatalogHandler) view(ctx context.Context, cmd Command) (*services.Card, error) {
	card, err := h.directory.View(ctx, cmd.Category, cmd.SortBy, cmd.Index)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, toast("Мастера не найдены.")
		}
		return nil, err
	}
	return card, nil
}

func (h *CatalogHandler) sendCard(ctx context.Context, chatID int64, card *services.Card) error {
	markup := CardKeyboard(card)
	var err error
	if caption, photo := cardCaption(card); photo {
		_, err = h.messenger.SendPhoto(ctx, chatID, *card.Master.PhotoFileID, caption, markup)
	} else {
		_, err = h.messenger.SendText(ctx, chatID, RenderCard(card), markup)
	}
	return err
}

// cardCaption reports whether card goes out as a photo and with which
// caption. A card that cannot fit a caption falls back to text.
func cardCaption(card *services.Card) (string, bool) {
	if !card.Master.HasPhoto() {
		return "", false
	}
	return RenderCaption(card)
}
