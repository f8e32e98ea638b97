package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMyBotsHandler returns a handler for the /my_bots command. It lists the
// registered builder bots with their stored activity flag and model.
func NewMyBotsHandler(deps HandlerDeps) bot.HandlerFunc {
	return myBotsHandler{deps}.Handle
}

type myBotsHandler struct {
	deps HandlerDeps
}

func (h myBotsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "my_bots")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID

	log.InfoContext(ctx, "Handling /my_bots command", "chat_id", chatID, "user_id", msg.From.ID)

	bots := deps.Registry.List(ctx)
	if len(bots) == 0 {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.NoBots}); err != nil {
			log.ErrorContext(ctx, "Failed to send empty bot list", "error", err, "chat_id", chatID)
		}
		return
	}

	var sb strings.Builder
	sb.WriteString("Твои боты:\n\n")
	for i, entry := range bots {
		flag := "❌"
		if entry.IsActive {
			flag = "✅"
		}
		fmt.Fprintf(&sb, "%d. `%s` [%s] (%s)\n", i+1, maskToken(entry.Token), flag, entry.Model)
	}
	sb.WriteString("\nУправлять ими можно через веб-панель.")

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      sb.String(),
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send bot list", "error", err, "chat_id", chatID)
	}
}

// maskToken shortens a bot token for display; the full secret never reaches chat.
func maskToken(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
