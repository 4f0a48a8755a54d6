// Package bot is the chat front end: it decodes Telegram updates, routes
// them to handlers and renders replies.
package bot

import (
	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/conversation"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
)

// Services are the application services the bot runs on
type Services struct {
	Directory    *services.DirectoryService
	Rating       *services.RatingService
	Moderation   *services.ModerationService
	Applications *services.ApplicationService
	Info         *services.InfoService
	Users        *services.UserService
}

// New wires the forms and handlers into a dispatcher
func New(svc Services, machine *conversation.Machine, messenger providers.Messenger, metrics *observability.Metrics) *Dispatcher {
	applicationForm := conversation.ApplicationForm(svc.Applications, Categories[1:], MainMenu())
	reviewForm := conversation.ReviewForm(svc.Rating)
	infoEditForm := conversation.InfoEditForm(svc.Info)
	faqAddForm := conversation.FAQAddForm(svc.Info)

	handlers := Handlers{
		Menu:    NewMenuHandler(machine, applicationForm, reviewForm, messenger),
		Catalog: NewCatalogHandler(svc.Directory, messenger),
		Info:    NewInfoHandler(svc.Info, messenger),
		Admin:   NewAdminHandler(svc.Moderation, svc.Info, machine, infoEditForm, faqAddForm, messenger),
	}

	return NewDispatcher(handlers, machine, svc.Users, messenger, metrics)
}
