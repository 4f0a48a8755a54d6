package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

const (
	defaultBaseURL  = "https://api.telegram.org"
	parseModeHTML   = tgbotapi.ModeHTML
	requestTimeout  = 30 * time.Second
	maxRetryAfter   = 30 * time.Second
	notModifiedText = "message is not modified"
)

// Client wraps the Bot API SDK and implements providers.Messenger.
// Outgoing calls share one rate limiter.
type Client struct {
	api        *tgbotapi.BotAPI
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API host
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit caps outgoing calls per second. Zero disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient creates a Bot API client for the given token. The token is
// checked with getMe before the client is returned.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("telegram bot token must be set")
	}

	c := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    rate.NewLimiter(rate.Limit(25), 25),
	}
	for _, opt := range opts {
		opt(c)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, c.baseURL+"/bot%s/%s", c.httpClient)
	if err != nil {
		return nil, c.wrap("getMe", err)
	}
	c.api = api
	return c, nil
}

var _ providers.Messenger = (*Client)(nil)

// Username returns the bot's own username as reported by getMe
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// GetUpdates long polls for updates after offset. It is not rate limited.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]tgbotapi.Update, error) {
	cfg := tgbotapi.NewUpdate(int(offset))
	cfg.Timeout = int(timeout.Seconds())
	cfg.AllowedUpdates = []string{"message", "callback_query"}

	var updates []tgbotapi.Update
	err := c.exec(ctx, "getUpdates", func() error {
		var err error
		updates, err = c.api.GetUpdates(cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// SendText sends an HTML formatted text message
func (c *Client) SendText(ctx context.Context, chatID int64, text string, markup providers.ReplyMarkup) (int64, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseModeHTML
	msg.ReplyMarkup = encodeMarkup(markup)
	return c.send(ctx, "sendMessage", msg)
}

// SendPhoto sends a photo by file id with an HTML caption
func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, markup providers.ReplyMarkup) (int64, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	photo.ParseMode = parseModeHTML
	photo.ReplyMarkup = encodeMarkup(markup)
	return c.send(ctx, "sendPhoto", photo)
}

// EditText edits a text message in place
func (c *Client) EditText(ctx context.Context, chatID, messageID int64, text string, markup providers.InlineKeyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, int(messageID), text)
	edit.ParseMode = parseModeHTML
	edit.ReplyMarkup = inlineMarkup(markup)
	return ignoreNotModified(c.request(ctx, "editMessageText", edit))
}

// EditPhoto swaps the photo and caption of a photo message in place
func (c *Client) EditPhoto(ctx context.Context, chatID, messageID int64, fileID, caption string, markup providers.InlineKeyboard) error {
	media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(fileID))
	media.Caption = caption
	media.ParseMode = parseModeHTML

	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:      chatID,
			MessageID:   int(messageID),
			ReplyMarkup: inlineMarkup(markup),
		},
		Media: media,
	}
	return ignoreNotModified(c.request(ctx, "editMessageMedia", edit))
}

// AnswerCallback acknowledges a button press
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return c.request(ctx, "answerCallbackQuery", tgbotapi.NewCallback(callbackID, text))
}

func (c *Client) send(ctx context.Context, method string, chattable tgbotapi.Chattable) (int64, error) {
	var sent tgbotapi.Message
	err := c.call(ctx, method, func() error {
		var err error
		sent, err = c.api.Send(chattable)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int64(sent.MessageID), nil
}

func (c *Client) request(ctx context.Context, method string, chattable tgbotapi.Chattable) error {
	return c.call(ctx, method, func() error {
		_, err := c.api.Request(chattable)
		return err
	})
}

// call waits for the limiter and retries once when Telegram asks to back off.
func (c *Client) call(ctx context.Context, method string, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout+maxRetryAfter)
	defer cancel()

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.NewExternalError("telegram "+method+" cancelled", err)
		}

		err := c.exec(ctx, method, fn)
		wait := retryAfter(err)
		if attempt > 0 || wait <= 0 || wait > maxRetryAfter {
			return err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return apperrors.NewExternalError("telegram "+method+" cancelled", ctx.Err())
		case <-timer.C:
		}
	}
}

// exec runs one SDK call. The SDK takes no context, so the call is
// abandoned rather than aborted when ctx ends.
func (c *Client) exec(ctx context.Context, method string, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return c.wrap(method, err)
	case <-ctx.Done():
		return apperrors.NewExternalError("telegram "+method+" cancelled", ctx.Err())
	}
}

// wrap turns SDK failures into EXTERNAL errors with the token scrubbed.
// Bot API errors stay reachable through errors.As.
func (c *Client) wrap(method string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apperrors.NewExternalError(fmt.Sprintf("telegram %s failed (code %d)", method, apiErr.Code), apiErr)
	}
	return apperrors.NewExternalError("telegram "+method+" failed", redactToken(err, c.token))
}

// IsRejected reports whether Telegram refused the request itself, so
// repeating it unchanged cannot succeed. Flood waits are not rejections.
func IsRejected(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests
}

func retryAfter(err error) time.Duration {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return time.Duration(apiErr.RetryAfter) * time.Second
	}
	return 0
}

func encodeMarkup(markup providers.ReplyMarkup) any {
	switch m := markup.(type) {
	case providers.InlineKeyboard:
		if m == nil {
			return nil
		}
		return *inlineMarkup(m)
	case providers.ReplyKeyboard:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(m))
		for _, row := range m {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, text := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(text))
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewReplyKeyboard(rows...)
	case providers.RemoveKeyboard:
		return tgbotapi.NewRemoveKeyboard(false)
	default:
		return nil
	}
}

func inlineMarkup(kb providers.InlineKeyboard) *tgbotapi.InlineKeyboardMarkup {
	if kb == nil {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// ignoreNotModified treats an edit that changes nothing as success
func ignoreNotModified(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, notModifiedText) {
		return nil
	}
	return err
}

// redactToken keeps the bot token out of transport errors, which embed the URL
func redactToken(err error, token string) error {
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, token, "<token>"))
}
