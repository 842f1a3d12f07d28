// Package telegram implements the Telegram Bot API provider.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"notifier/internal/common"
	"notifier/pkg/channel/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram's hard limit is 4096 characters; keep a safety margin. Counted in
// runes, not bytes.
const messageLimit = 4000

var _ telegram.Provider = (*BotProvider)(nil)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotProvider sends messages as a Telegram bot.
type BotProvider struct {
	bot messageSender
}

// NewBotProvider authenticates token against the Bot API.
func NewBotProvider(token string) (*BotProvider, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	return &BotProvider{bot: bot}, nil
}

// Name returns the provider identifier.
func (p *BotProvider) Name() string { return "bot" }

// Send delivers msg, split into several messages when it exceeds the
// Telegram length limit.
func (p *BotProvider) Send(ctx context.Context, msg *telegram.Message) error {
	for _, part := range splitByLimit(msg.Text, messageLimit) {
		// tgbotapi doesn't take a context, so check between parts.
		if err := ctx.Err(); err != nil {
			return err
		}

		out := tgbotapi.NewMessage(int64(msg.ChatID), part)
		out.ParseMode = msg.ParseMode

		if _, err := p.bot.Send(out); err != nil {
			return common.NewProviderError(p.Name(), 0, err)
		}
	}
	return nil
}

// splitByLimit splits text into chunks of at most limit characters, preferring
// paragraph breaks, then line breaks, then a hard cut on a rune boundary.
func splitByLimit(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		out   []string
		cur   strings.Builder
		count int // runes in cur
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
			count = 0
		}
	}
	appendPart := func(part, sep string) bool {
		add := utf8.RuneCountInString(part)
		if cur.Len() > 0 {
			add += utf8.RuneCountInString(sep)
		}
		if count+add > limit {
			return false
		}
		if cur.Len() > 0 {
			cur.WriteString(sep)
		}
		cur.WriteString(part)
		count += add
		return true
	}

	for _, para := range strings.Split(text, "\n\n") {
		if appendPart(para, "\n\n") {
			continue
		}
		flush()
		if appendPart(para, "\n\n") {
			continue
		}

		for _, line := range strings.Split(para, "\n") {
			if appendPart(line, "\n") {
				continue
			}
			flush()
			for utf8.RuneCountInString(line) > limit {
				cut := byteOffset(line, limit)
				out = append(out, line[:cut])
				line = line[cut:]
			}
			appendPart(line, "\n")
		}
	}

	flush()
	return out
}

// byteOffset returns the byte index of the n-th rune in s.
func byteOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}
