// Package telegram is the Telegram chat delivery channel.
package telegram

import (
	"context"
	"strconv"

	"notifier/pkg/dispatch"
)

const channelName = "telegram"

// Parse modes understood by the Bot API.
const (
	ParseModeNone       = ""
	ParseModeHTML       = "HTML"
	ParseModeMarkdownV2 = "MarkdownV2"
)

// ChatID is a Telegram chat contact.
type ChatID int64

// ParseChatID parses a numeric chat id.
func ParseChatID(s string) (ChatID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ChatID(id), nil
}

func (id ChatID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Template is the Telegram template integrators register for a notification.
type Template struct {
	Text      string
	ParseMode string
}

type compiledTemplate struct {
	text      dispatch.TemplateHandle
	parseMode string
}

func (c *compiledTemplate) TemplateHandles() []dispatch.TemplateHandle {
	return []dispatch.TemplateHandle{c.text}
}

// Contents is a rendered Telegram message.
type Contents struct {
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Message is a Telegram message ready for a provider.
type Message struct {
	ChatID    ChatID `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Provider delivers Telegram messages. Implementations live in
// internal/infra/telegram.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

var _ dispatch.Channel[ChatID, *Message, Template, Contents] = (*Channel)(nil)

// Channel delivers notifications to Telegram chats.
type Channel struct {
	provider Provider
}

// New creates a Telegram channel.
func New(provider Provider) *Channel {
	return &Channel{provider: provider}
}

// Erased returns the channel ready for Notifier.RegisterChannel.
func (c *Channel) Erased() dispatch.ErasedChannel {
	return dispatch.Erase[ChatID, *Message, Template, Contents](c)
}

// Identity returns the Telegram channel's identity.
func (c *Channel) Identity() dispatch.ChannelIdentity {
	return dispatch.IdentityOf[*Message, ChatID]()
}

// CreateMessage addresses contents to chat contact. A zero chat id is a
// BuildError.
func (c *Channel) CreateMessage(contact ChatID, contents Contents) (*Message, error) {
	if contact == 0 {
		return nil, dispatch.NewBuildError(channelName, "chat_id")
	}
	return &Message{ChatID: contact, Text: contents.Text, ParseMode: contents.ParseMode}, nil
}

// Send delivers msg through the provider.
func (c *Channel) Send(ctx context.Context, msg *Message) error {
	if err := c.provider.Send(ctx, msg); err != nil {
		return dispatch.NewTransportError(channelName, c.provider.Name(), err)
	}
	return nil
}

// RegisterTemplate compiles the message text and keeps its parse mode.
func (c *Channel) RegisterTemplate(id dispatch.NotificationID, source Template, ts *dispatch.TemplateService) error {
	handle, err := ts.Compile(source.Text)
	if err != nil {
		return err
	}
	ts.PutTemplate(id, c.Identity(), &compiledTemplate{text: handle, parseMode: source.ParseMode})
	return nil
}

// RenderTemplate renders the stored text for id.
func (c *Channel) RenderTemplate(id dispatch.NotificationID, ctx dispatch.RenderContext, ts *dispatch.TemplateService) (Contents, error) {
	compiled, err := dispatch.GetTemplate[*compiledTemplate](ts, id, c.Identity())
	if err != nil {
		return Contents{}, err
	}
	text, err := ts.RenderTemplate(compiled.text, ctx)
	if err != nil {
		return Contents{}, err
	}
	return Contents{Text: text, ParseMode: compiled.parseMode}, nil
}
