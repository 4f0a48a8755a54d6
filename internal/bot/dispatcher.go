package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/Anycrabs/telegram-masters-bot/internal/conversation"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// User facing error texts
const (
	textInvalidData  = "Некорректные данные"
	textNoAccess     = "Нет доступа"
	textNotFound     = "Не найдено."
	textConflict     = "Действие недоступно для текущего статуса."
	textInternal     = "Произошла ошибка. Попробуйте позже."
	textInvalidInput = "Некорректные данные. Попробуйте ещё раз."
)

var masterRefPattern = regexp.MustCompile(`^#\s*(\d+)$`)

// FormRunner drives the users' multi-step forms
type FormRunner interface {
	FormStarter
	Handle(ctx context.Context, userID int64, in conversation.Input) ([]conversation.Reply, bool, error)
	Cancel(userID int64) bool
}

// UserRegistrar records that a user contacted the bot
type UserRegistrar interface {
	Register(ctx context.Context, telegramID int64) error
}

// Handlers groups the handlers the dispatcher routes to
type Handlers struct {
	Menu    *MenuHandler
	Catalog *CatalogHandler
	Info    *InfoHandler
	Admin   *AdminHandler
}

// Dispatcher routes every update to one handler. It is the single place
// where handler errors are turned into user facing messages.
type Dispatcher struct {
	handlers  Handlers
	forms     FormRunner
	users     UserRegistrar
	messenger providers.Messenger
	metrics   *observability.Metrics
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(handlers Handlers, forms FormRunner, users UserRegistrar, messenger providers.Messenger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		handlers:  handlers,
		forms:     forms,
		users:     users,
		messenger: messenger,
		metrics:   metrics,
	}
}

// Dispatch handles one update. It never returns an error and never panics.
func (d *Dispatcher) Dispatch(ctx context.Context, u Update) {
	ctx, span := observability.StartSpan(ctx, "bot."+u.Kind())
	defer span.End()

	ctx = observability.WithFields(ctx, map[string]any{
		"correlation_id": uuid.NewString(),
		"update_id":      u.ID,
		"user_id":        u.UserID,
		"kind":           u.Kind(),
	})
	start := time.Now()

	route, err := d.safeRoute(ctx, &u)

	var n *Notice
	failed := err != nil && !errors.As(err, &n)
	if failed {
		observability.RecordError(span, err)
	}
	d.reportError(ctx, &u, err)

	observability.SetSpanAttributes(span,
		attribute.String("bot.route", route),
		attribute.Int64("bot.user_id", u.UserID),
		attribute.Bool("bot.failed", failed),
	)
	observability.RecordUpdateMetric(ctx, d.metrics, u.Kind(), route, failed, time.Since(start))
}

func (d *Dispatcher) safeRoute(ctx context.Context, u *Update) (route string, err error) {
	route = "unknown"
	defer func() {
		if r := recover(); r != nil {
			observability.LoggerFromContext(ctx).Error().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic while handling update")
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if u.IsCallback() {
		return d.routeCallback(ctx, u)
	}
	return d.routeMessage(ctx, u)
}

// commandName strips arguments and the bot mention from a slash command
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name, _, _ := strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name)
}

func (d *Dispatcher) routeMessage(ctx context.Context, u *Update) (string, error) {
	h := d.handlers

	switch commandName(u.Text) {
	case "/start":
		d.forms.Cancel(u.UserID)
		if err := d.users.Register(ctx, u.UserID); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to register user")
		}
		return "start", h.Menu.Start(ctx, u)
	case "/cancel":
		return "cancel", h.Menu.Cancel(ctx, u, d.forms.Cancel(u.UserID))
	}

	replies, handled, err := d.forms.Handle(ctx, u.UserID, conversation.Input{Text: u.Text, PhotoID: u.PhotoID})
	if handled {
		for _, r := range replies {
			if sendErr := sendReply(ctx, d.messenger, u.ChatID, r); sendErr != nil {
				return "form", sendErr
			}
		}
		return "form", err
	}

	if commandName(u.Text) == "/admin" {
		return "admin.panel", h.Admin.Panel(ctx, u)
	}

	switch u.Text {
	case ButtonCatalog:
		return "catalog.entry", h.Catalog.Entry(ctx, u)
	case ButtonBecomeMaster:
		return "application.begin", h.Menu.BecomeMaster(ctx, u)
	case ButtonAbout:
		return "info.about", h.Info.About(ctx, u)
	case ButtonContacts:
		return "info.contacts", h.Info.Contacts(ctx, u)
	case ButtonFAQ:
		return "info.faq", h.Info.FAQ(ctx, u)
	}

	if m := masterRefPattern.FindStringSubmatch(u.Text); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return "catalog.by_id", notice("Мастер не найден.")
		}
		return "catalog.by_id", h.Catalog.ByID(ctx, u, id)
	}

	return "unknown", h.Menu.Unknown(ctx, u)
}

func (d *Dispatcher) routeCallback(ctx context.Context, u *Update) (string, error) {
	if u.CommandErr != nil {
		return "callback.invalid", u.CommandErr
	}

	h := d.handlers
	cmd := *u.Command
	route := string(cmd.Action)

	switch cmd.Action {
	case ActionCatalogList:
		return route, h.Catalog.List(ctx, u, cmd)
	case ActionCatalogOpen:
		return route, h.Catalog.Open(ctx, u, cmd)
	case ActionCatalogView:
		return route, h.Catalog.Navigate(ctx, u, cmd)
	case ActionReviewAdd:
		return route, h.Menu.BeginReview(ctx, u, cmd)
	default:
		return route, h.Admin.Callback(ctx, u, cmd)
	}
}

// reportError acknowledges callbacks and reports err, if any, to the user
func (d *Dispatcher) reportError(ctx context.Context, u *Update, err error) {
	logger := observability.LoggerFromContext(ctx)

	text, popup := d.describe(ctx, u, err)

	if u.IsCallback() {
		answer := ""
		if popup {
			answer = text
		}
		if aerr := d.messenger.AnswerCallback(ctx, u.CallbackID, answer); aerr != nil {
			logger.Debug().Err(aerr).Msg("failed to answer callback")
		}
		if popup || text == "" {
			return
		}
	}
	if text == "" {
		return
	}

	if _, serr := d.messenger.SendText(ctx, u.ChatID, text, MainMenu()); serr != nil {
		logger.Warn().Err(serr).Msg("failed to report error to user")
	}
}

// describe maps err to a user facing text and whether it fits a callback
// popup
func (d *Dispatcher) describe(ctx context.Context, u *Update, err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var n *Notice
	if errors.As(err, &n) {
		return n.Text, n.Toast && u.IsCallback()
	}

	logger := observability.LoggerFromContext(ctx)
	switch {
	case errors.Is(err, ErrInvalidCommand):
		logger.Warn().Err(err).Msg("invalid callback data")
		return textInvalidData, u.IsCallback()
	case apperrors.IsPermissionDenied(err):
		logger.Warn().Err(err).Msg("permission denied")
		return textNoAccess, u.IsCallback()
	case apperrors.IsNotFound(err):
		return textNotFound, u.IsCallback()
	case apperrors.IsConflict(err):
		logger.Info().Err(err).Msg("conflicting action")
		return textConflict, u.IsCallback()
	case apperrors.IsValidation(err):
		logger.Debug().Str("reason", apperrors.Message(err)).Msg("rejected input")
		return textInvalidInput, false
	}

	logger.Error().Err(err).Msg("failed to handle update")
	return textInternal, false
}
