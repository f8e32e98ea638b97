// Package telegram implements the messaging transport over the go-telegram/bot
// library: listener lifecycle for created bots and helpers shared with the
// main bot.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/koloau/builder/internal/logger"
	"github.com/koloau/builder/internal/registry"
)

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, log *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created", "token_prefix", tokenPrefix(token))
	return b, nil
}

// Client starts and stops long-poll listeners for created bots. It implements
// registry.Messenger.
type Client struct {
	logger *slog.Logger
}

// NewClient creates a listener factory for created bots.
func NewClient(log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{logger: log.With("component", "telegram_client")}
}

// StartListener validates the token against the Telegram API, then starts a
// long-poll loop in its own goroutine. The returned handle stops the loop;
// in-flight handler invocations finish on their own.
func (c *Client) StartListener(ctx context.Context, token string, onMessage registry.OnMessage) (registry.Handle, error) {
	log := c.logger.With("token_prefix", tokenPrefix(token))

	b, err := NewTelegramBot(token, log,
		bot.WithMiddlewares(logger.Middleware(log)),
		bot.WithDefaultHandler(textHandler(log, onMessage)),
	)
	if err != nil {
		return nil, err
	}

	// GetMe surfaces invalid tokens synchronously instead of letting the
	// poll loop fail silently in the background.
	me, err := b.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to validate bot token: %w", err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	l := &listener{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(l.done)
		b.Start(listenCtx)
	}()

	log.Info("Listener started", "bot_username", me.Username)
	return l, nil
}

// listener is the live handle for one created bot.
type listener struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the poll loop. It does not wait for in-flight handlers.
func (l *listener) Stop() error {
	l.cancel()
	return nil
}

func tokenPrefix(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
