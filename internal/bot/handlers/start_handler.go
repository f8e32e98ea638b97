package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command. It greets the
// user with their current model and the vendor category picker.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", userID)

	model := userModel(ctx, h.deps, userID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf(h.deps.Config.Messages.Welcome, model),
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: categoryKeyboard(h.deps.Config.Telegram.BuilderURL),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}
}

// userModel returns the user's stored model preference or the configured
// default. Storage failures fall back to the default; a missing preference
// is not an error.
func userModel(ctx context.Context, deps HandlerDeps, userID int64) string {
	model, err := deps.Store.GetUserModel(ctx, userID)
	if err != nil {
		deps.Logger.WarnContext(ctx, "Failed to read user model, using default", "user_id", userID, "error", err)
	}
	if model == "" {
		return deps.Config.F5AI.DefaultModel
	}
	return model
}
