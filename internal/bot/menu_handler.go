package bot

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/conversation"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
)

const (
	welcomeText   = "Добро пожаловать! Выберите пункт меню."
	cancelledText = "Действие отменено."
	idleText      = "Нечего отменять."
	unknownText   = "Не понял вас. Выберите пункт меню."
)

// MenuHandler serves the main menu and starts the user facing forms
type MenuHandler struct {
	forms       FormStarter
	application *conversation.Form
	review      *conversation.Form
	messenger   providers.Messenger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(forms FormStarter, application, review *conversation.Form, messenger providers.Messenger) *MenuHandler {
	return &MenuHandler{
		forms:       forms,
		application: application,
		review:      review,
		messenger:   messenger,
	}
}

// Start greets the user and shows the main menu
func (h *MenuHandler) Start(ctx context.Context, u *Update) error {
	_, err := h.messenger.SendText(ctx, u.ChatID, welcomeText, MainMenu())
	return err
}

// Cancel confirms that the active form, if any, was dropped
func (h *MenuHandler) Cancel(ctx context.Context, u *Update, hadForm bool) error {
	text := cancelledText
	if !hadForm {
		text = idleText
	}
	_, err := h.messenger.SendText(ctx, u.ChatID, text, MainMenu())
	return err
}

// BecomeMaster starts the application form
func (h *MenuHandler) BecomeMaster(ctx context.Context, u *Update) error {
	return sendReply(ctx, h.messenger, u.ChatID, h.forms.Begin(ctx, h.application, identity(u), nil))
}

// BeginReview starts the review form for the master on the card
func (h *MenuHandler) BeginReview(ctx context.Context, u *Update, cmd Command) error {
	bound := conversation.Fields{conversation.FieldMasterID: cmd.MasterID}
	return sendReply(ctx, h.messenger, u.ChatID, h.forms.Begin(ctx, h.review, identity(u), bound))
}

// Unknown answers free text that matches nothing
func (h *MenuHandler) Unknown(ctx context.Context, u *Update) error {
	_, err := h.messenger.SendText(ctx, u.ChatID, unknownText, MainMenu())
	return err
}
