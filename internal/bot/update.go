package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateSource yields raw updates by long polling
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]tgbotapi.Update, error)
}

// Update is an inbound event reduced to what handlers need. Callback data
// is decoded once here; Command is nil for plain messages.
type Update struct {
	ID       int64
	UserID   int64
	ChatID   int64
	Username string

	Text    string
	PhotoID string

	CallbackID string
	Command    *Command
	CommandErr error

	// The message a callback button belongs to
	MessageID       int64
	MessageHasPhoto bool
}

// IsCallback reports whether the update is a button press
func (u *Update) IsCallback() bool {
	return u.CallbackID != ""
}

// Kind names the update for logs and metrics
func (u *Update) Kind() string {
	if u.IsCallback() {
		return "callback"
	}
	return "message"
}

// FromTelegram converts a raw update. ok is false for updates the bot does
// not handle, such as messages without a sender.
func FromTelegram(raw tgbotapi.Update) (Update, bool) {
	switch {
	case raw.CallbackQuery != nil && raw.CallbackQuery.From != nil:
		cq := raw.CallbackQuery
		u := Update{
			ID:         int64(raw.UpdateID),
			UserID:     cq.From.ID,
			ChatID:     cq.From.ID,
			Username:   cq.From.UserName,
			CallbackID: cq.ID,
		}
		if cq.Message != nil {
			if cq.Message.Chat != nil {
				u.ChatID = cq.Message.Chat.ID
			}
			u.MessageID = int64(cq.Message.MessageID)
			u.MessageHasPhoto = len(cq.Message.Photo) > 0
		}
		cmd, err := DecodeCommand(cq.Data)
		if err != nil {
			u.CommandErr = err
		} else {
			u.Command = &cmd
		}
		return u, true

	case raw.Message != nil && raw.Message.From != nil:
		msg := raw.Message
		text := msg.Text
		if text == "" {
			text = msg.Caption
		}
		u := Update{
			ID:       int64(raw.UpdateID),
			UserID:   msg.From.ID,
			ChatID:   msg.From.ID,
			Username: msg.From.UserName,
			Text:     strings.TrimSpace(text),
			PhotoID:  largestPhoto(msg.Photo),
		}
		if msg.Chat != nil {
			u.ChatID = msg.Chat.ID
		}
		return u, true
	}

	return Update{}, false
}

// largestPhoto returns the file id of the biggest photo size, or "".
func largestPhoto(sizes []tgbotapi.PhotoSize) string {
	if len(sizes) == 0 {
		return ""
	}
	best := sizes[0]
	for _, p := range sizes[1:] {
		if p.Width*p.Height > best.Width*best.Height {
			best = p
		}
	}
	return best.FileID
}
