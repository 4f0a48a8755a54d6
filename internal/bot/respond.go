package bot

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Anycrabs/telegram-masters-bot/internal/conversation"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
)

// messageLimit is Telegram's cap on text message length in runes
const messageLimit = 4096

// Notice is an expected outcome shown to the user as is. It travels the
// error path so handlers can stop early, but it is not a failure.
// Toast notices answer a button press with a popup instead of a message.
type Notice struct {
	Text  string
	Toast bool
}

func (n *Notice) Error() string {
	return n.Text
}

func notice(text string) error {
	return &Notice{Text: text}
}

func toast(text string) error {
	return &Notice{Text: text, Toast: true}
}

func sendReply(ctx context.Context, m providers.Messenger, chatID int64, r conversation.Reply) error {
	_, err := m.SendText(ctx, chatID, r.Text, r.Markup)
	return err
}

// sendChunked sends text split on line breaks into messages that fit the
// length cap. markup goes on the last message.
func sendChunked(ctx context.Context, m providers.Messenger, chatID int64, text string, markup providers.ReplyMarkup) error {
	chunks := splitMessage(text, messageLimit)
	for i, chunk := range chunks {
		var mk providers.ReplyMarkup
		if i == len(chunks)-1 {
			mk = markup
		}
		if _, err := m.SendText(ctx, chatID, chunk, mk); err != nil {
			return err
		}
	}
	return nil
}

func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		size   int
	)
	flush := func() {
		if size > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			size = 0
		}
	}
	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		for n > limit {
			flush()
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		if size > 0 && size+1+n > limit {
			flush()
		}
		if size > 0 {
			cur.WriteByte('\n')
			size++
		}
		cur.WriteString(line)
		size += n
	}
	flush()
	return chunks
}
