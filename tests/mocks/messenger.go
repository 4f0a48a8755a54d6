package mocks

import (
	"context"
	"sync"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
)

// SentKind tells which Messenger call produced a SentMessage
type SentKind string

const (
	KindText      SentKind = "text"
	KindPhoto     SentKind = "photo"
	KindEditText  SentKind = "edit_text"
	KindEditPhoto SentKind = "edit_photo"
	KindAnswer    SentKind = "answer"
)

// SentMessage is one recorded Messenger call
type SentMessage struct {
	Kind       SentKind
	ChatID     int64
	MessageID  int64
	Text       string
	PhotoID    string
	Markup     providers.ReplyMarkup
	CallbackID string
}

// FakeMessenger records outgoing messages instead of sending them
type FakeMessenger struct {
	mu     sync.Mutex
	sent   []SentMessage
	nextID int64

	// FailFor makes sends to these chats fail with Err
	FailFor map[int64]bool
	// FailEdits makes edit calls fail with Err
	FailEdits bool
	Err       error
}

// NewFakeMessenger creates a messenger that never fails
func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{FailFor: map[int64]bool{}, nextID: 100}
}

var _ providers.Messenger = (*FakeMessenger)(nil)

func (f *FakeMessenger) record(msg SentMessage) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if msg.MessageID == 0 {
		msg.MessageID = f.nextID
	}
	f.sent = append(f.sent, msg)
	return msg.MessageID
}

func (f *FakeMessenger) failing(chatID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.FailFor[chatID]
}

func (f *FakeMessenger) SendText(ctx context.Context, chatID int64, text string, markup providers.ReplyMarkup) (int64, error) {
	if f.failing(chatID) {
		return 0, f.Err
	}
	return f.record(SentMessage{Kind: KindText, ChatID: chatID, Text: text, Markup: markup}), nil
}

func (f *FakeMessenger) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, markup providers.ReplyMarkup) (int64, error) {
	if f.failing(chatID) {
		return 0, f.Err
	}
	return f.record(SentMessage{Kind: KindPhoto, ChatID: chatID, PhotoID: fileID, Text: caption, Markup: markup}), nil
}

func (f *FakeMessenger) EditText(ctx context.Context, chatID, messageID int64, text string, markup providers.InlineKeyboard) error {
	if f.FailEdits {
		return f.Err
	}
	f.record(SentMessage{Kind: KindEditText, ChatID: chatID, MessageID: messageID, Text: text, Markup: markup})
	return nil
}

func (f *FakeMessenger) EditPhoto(ctx context.Context, chatID, messageID int64, fileID, caption string, markup providers.InlineKeyboard) error {
	if f.FailEdits {
		return f.Err
	}
	f.record(SentMessage{Kind: KindEditPhoto, ChatID: chatID, MessageID: messageID, PhotoID: fileID, Text: caption, Markup: markup})
	return nil
}

func (f *FakeMessenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	f.record(SentMessage{Kind: KindAnswer, CallbackID: callbackID, Text: text})
	return nil
}

// Sent returns every recorded call
func (f *FakeMessenger) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage(nil), f.sent...)
}

// To returns the recorded calls addressed to chatID, answers excluded
func (f *FakeMessenger) To(chatID int64) []SentMessage {
	var out []SentMessage
	for _, m := range f.Sent() {
		if m.Kind != KindAnswer && m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// Last returns the latest call addressed to chatID
func (f *FakeMessenger) Last(chatID int64) (SentMessage, bool) {
	msgs := f.To(chatID)
	if len(msgs) == 0 {
		return SentMessage{}, false
	}
	return msgs[len(msgs)-1], true
}

// Reset forgets recorded calls
func (f *FakeMessenger) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}
