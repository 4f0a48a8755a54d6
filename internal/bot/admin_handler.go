package bot

import (
	"context"
	"fmt"

	"github.com/Anycrabs/telegram-masters-bot/internal/conversation"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// Moderator defines the moderation operations used by the handler.
type Moderator interface {
	IsAdmin(userID int64) bool
	ListPending(ctx context.Context, actorID int64) ([]*entities.Master, error)
	ListAll(ctx context.Context, actorID int64, category string) ([]*entities.Master, error)
	Approve(ctx context.Context, actorID, masterID int64) (*entities.Master, error)
	Reject(ctx context.Context, actorID, masterID int64) (*entities.Master, error)
}

// PageReader loads an info page for editing
type PageReader interface {
	GetPage(ctx context.Context, slug string) (*entities.InfoPage, error)
}

// FormStarter begins a form for a user, replacing any active one
type FormStarter interface {
	Begin(ctx context.Context, form *conversation.Form, who conversation.Identity, bound conversation.Fields) conversation.Reply
}

// AdminHandler serves the admin panel. Every entry point checks the caller
// before touching a service; the services check again.
type AdminHandler struct {
	moderator Moderator
	pages     PageReader
	forms     FormStarter
	infoEdit  *conversation.Form
	faqAdd    *conversation.Form
	messenger providers.Messenger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	moderator Moderator,
	pages PageReader,
	forms FormStarter,
	infoEdit, faqAdd *conversation.Form,
	messenger providers.Messenger,
) *AdminHandler {
	return &AdminHandler{
		moderator: moderator,
		pages:     pages,
		forms:     forms,
		infoEdit:  infoEdit,
		faqAdd:    faqAdd,
		messenger: messenger,
	}
}

func (h *AdminHandler) authorize(userID int64) error {
	if !h.moderator.IsAdmin(userID) {
		return apperrors.NewPermissionDeniedError(fmt.Sprintf("user %d is not an admin", userID))
	}
	return nil
}

// Panel handles /admin
func (h *AdminHandler) Panel(ctx context.Context, u *Update) error {
	if !h.moderator.IsAdmin(u.UserID) {
		return notice("У вас нет доступа к админ-панели.")
	}
	_, err := h.messenger.SendText(ctx, u.ChatID, "Админ-панель:", AdminMenu())
	return err
}

// Callback routes admin:* button presses
func (h *AdminHandler) Callback(ctx context.Context, u *Update, cmd Command) error {
	if err := h.authorize(u.UserID); err != nil {
		return err
	}

	switch cmd.Action {
	case ActionAdminPending:
		return h.pending(ctx, u)
	case ActionAdminAll:
		return h.all(ctx, u)
	case ActionAdminApprove, ActionAdminReject:
		return h.moderate(ctx, u, cmd)
	case ActionAdminInfoMenu:
		_, err := h.messenger.SendText(ctx, u.ChatID, "Управление инфо-разделами:", InfoMenu())
		return err
	case ActionAdminInfoEdit:
		return h.editPage(ctx, u, cmd.Slug)
	case ActionAdminFAQMenu:
		_, err := h.messenger.SendText(ctx, u.ChatID, "Управление FAQ:", FAQMenu())
		return err
	case ActionAdminFAQAdd:
		return sendReply(ctx, h.messenger, u.ChatID, h.forms.Begin(ctx, h.faqAdd, identity(u), nil))
	}
	return fmt.Errorf("%w: unexpected admin action %q", ErrInvalidCommand, cmd.Action)
}

func (h *AdminHandler) pending(ctx context.Context, u *Update) error {
	masters, err := h.moderator.ListPending(ctx, u.UserID)
	if err != nil {
		return err
	}
	if len(masters) == 0 {
		return notice("Нет заявок мастеров.")
	}

	for _, m := range masters {
		markup := PendingKeyboard(m)
		caption, fits := RenderPendingCaption(m)
		if m.HasPhoto() && fits {
			_, err = h.messenger.SendPhoto(ctx, u.ChatID, *m.PhotoFileID, caption, markup)
		} else {
			_, err = h.messenger.SendText(ctx, u.ChatID, RenderPending(m), markup)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *AdminHandler) all(ctx context.Context, u *Update) error {
	masters, err := h.moderator.ListAll(ctx, u.UserID, repositories.AllCategories)
	if err != nil {
		return err
	}
	if len(masters) == 0 {
		return notice("Мастеров пока нет.")
	}
	return sendChunked(ctx, h.messenger, u.ChatID, RenderAllMasters(masters), nil)
}

func (h *AdminHandler) moderate(ctx context.Context, u *Update, cmd Command) error {
	var (
		master *entities.Master
		err    error
		done   string
	)
	if cmd.Action == ActionAdminApprove {
		master, err = h.moderator.Approve(ctx, u.UserID, cmd.MasterID)
		done = "одобрен"
	} else {
		master, err = h.moderator.Reject(ctx, u.UserID, cmd.MasterID)
		done = "отклонён"
	}
	if err != nil {
		if apperrors.IsNotFound(err) {
			return notice("Мастер не найден.")
		}
		return err
	}

	_, err = h.messenger.SendText(ctx, u.ChatID, fmt.Sprintf("Мастер %s %s.", masterRef(master.ID), done), nil)
	return err
}

func (h *AdminHandler) editPage(ctx context.Context, u *Update, slug string) error {
	bound := conversation.Fields{conversation.FieldSlug: slug}

	page, err := h.pages.GetPage(ctx, slug)
	switch {
	case err == nil:
		bound[conversation.FieldCurrentTitle] = page.Title
		bound[conversation.FieldCurrentContent] = page.Content
	case !apperrors.IsNotFound(err):
		return err
	}

	return sendReply(ctx, h.messenger, u.ChatID, h.forms.Begin(ctx, h.infoEdit, identity(u), bound))
}

func identity(u *Update) conversation.Identity {
	return conversation.Identity{UserID: u.UserID, ChatID: u.ChatID, Username: u.Username}
}
