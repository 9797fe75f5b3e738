// Package telegram is the boundary to the Telegram Bot API, used by the
// pairing flow. It wraps telego behind three operations: verify the bot
// token (getMe), poll inbound updates (getUpdates long polling), and send
// a message (sendMessage).
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// BotIdentity describes the bot account a token resolves to.
type BotIdentity struct {
	Handle      string // username, without the @
	DisplayName string
}

// InboundEvent is one message-bearing update from the Bot API.
type InboundEvent struct {
	ID             int    // update_id
	ConversationID string // chat id, decimal string
	Text           string
	SenderName     string
}

// Client calls the Bot API on behalf of a single bot token.
type Client struct {
	bot *telego.Bot
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	apiServer string
}

// WithAPIServer overrides the Bot API base URL. Used by tests.
func WithAPIServer(url string) Option {
	return func(o *clientOptions) { o.apiServer = url }
}

// NewClient creates a client for the given bot token. No network call is
// made here; the token is only checked for well-formedness.
func NewClient(token string, opts ...Option) (*Client, error) {
	var co clientOptions
	for _, opt := range opts {
		opt(&co)
	}

	botOpts := []telego.BotOption{telego.WithDiscardLogger()}
	if co.apiServer != "" {
		botOpts = append(botOpts, telego.WithAPIServer(co.apiServer))
	}

	bot, err := telego.NewBot(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}
	return &Client{bot: bot}, nil
}

// VerifyToken checks the token against getMe. One attempt, no retry — the
// interactive caller decides whether to prompt for a new token.
func (c *Client) VerifyToken(ctx context.Context) (BotIdentity, error) {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return BotIdentity{}, fmt.Errorf("verify bot token: %w", err)
	}
	return BotIdentity{Handle: me.Username, DisplayName: me.FirstName}, nil
}

// Poll performs one bounded getUpdates read. The server may hold the
// request open up to timeout waiting for new updates.
//
// Any I/O or API failure is swallowed here: the call returns an empty
// batch and the unchanged cursor, and the enclosing loop carries on until
// its own deadline. Non-message updates are skipped but still advance the
// cursor past their ids.
func (c *Client) Poll(ctx context.Context, cursor Cursor, timeout time.Duration) ([]InboundEvent, Cursor) {
	params := &telego.GetUpdatesParams{
		Offset:  cursor.Offset(),
		Timeout: int(timeout / time.Second),
	}

	updates, err := c.bot.GetUpdates(ctx, params)
	if err != nil {
		slog.Debug("telegram: poll failed", "error", err)
		return nil, cursor
	}

	events := make([]InboundEvent, 0, len(updates))
	for _, update := range updates {
		cursor = cursor.Advance(update.UpdateID)

		msg := update.Message
		if msg == nil {
			continue
		}
		events = append(events, InboundEvent{
			ID:             update.UpdateID,
			ConversationID: strconv.FormatInt(msg.Chat.ID, 10),
			Text:           msg.Text,
			SenderName:     senderName(msg.From),
		})
	}
	return events, cursor
}

// Send delivers a Markdown-formatted message to a conversation.
func (c *Client) Send(ctx context.Context, conversationID, text string) error {
	chatID, err := strconv.ParseInt(conversationID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid conversation id %q: %w", conversationID, err)
	}

	msg := tu.Message(tu.ID(chatID), text)
	msg.ParseMode = telego.ModeMarkdown
	if _, err := c.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func senderName(user *telego.User) string {
	if user == nil || user.FirstName == "" {
		return "User"
	}
	return user.FirstName
}
