package providers

import "context"

// ReplyMarkup is one of InlineKeyboard, ReplyKeyboard or RemoveKeyboard.
type ReplyMarkup interface {
	replyMarkup()
}

// InlineButton is a button attached to a message that fires a callback
type InlineButton struct {
	Text string
	Data string
}

// InlineKeyboard is a grid of callback buttons attached to a message
type InlineKeyboard [][]InlineButton

// ReplyKeyboard is a grid of persistent text buttons
type ReplyKeyboard [][]string

// RemoveKeyboard hides a previously shown reply keyboard
type RemoveKeyboard struct{}

func (InlineKeyboard) replyMarkup() {}
func (ReplyKeyboard) replyMarkup()  {}
func (RemoveKeyboard) replyMarkup() {}

// Messenger defines the chat transport used by handlers and notifications.
// Text is sent in HTML parse mode; callers escape user supplied fragments.
type Messenger interface {
	// SendText sends a text message and returns its message id
	SendText(ctx context.Context, chatID int64, text string, markup ReplyMarkup) (int64, error)

	// SendPhoto sends a photo by file id with a caption
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, markup ReplyMarkup) (int64, error)

	// EditText replaces the text and keyboard of a text message
	EditText(ctx context.Context, chatID, messageID int64, text string, markup InlineKeyboard) error

	// EditPhoto replaces the photo, caption and keyboard of a photo message
	EditPhoto(ctx context.Context, chatID, messageID int64, fileID, caption string, markup InlineKeyboard) error

	// AnswerCallback acknowledges a button press, optionally with a toast
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
