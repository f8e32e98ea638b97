package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/koloau/builder/internal/registry"
)

// textHandler adapts a registry message handler to the go-telegram/bot update
// callback. Created bots handle text only; other update kinds are ignored.
func textHandler(log *slog.Logger, onMessage registry.OnMessage) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.From == nil || msg.Text == "" {
			return
		}

		chatID := msg.Chat.ID

		_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

		reply := onMessage(ctx, registry.Inbound{
			ChatID: chatID,
			UserID: msg.From.ID,
			Text:   msg.Text,
		})
		if reply == "" {
			return
		}

		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: reply}); err != nil {
			log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
		}
	}
}
