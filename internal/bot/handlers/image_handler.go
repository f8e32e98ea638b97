package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewImageHandler returns a handler for the /image command. It forwards the
// prompt to the gateway's image endpoint and replies with the rendered photo.
func NewImageHandler(deps HandlerDeps) bot.HandlerFunc {
	return imageHandler{deps}.Handle
}

type imageHandler struct {
	deps HandlerDeps
}

func (h imageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "image")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID

	prompt := strings.TrimSpace(commandArgument(msg.Text, "/image"))
	if prompt == "" {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.ImageUsage}); err != nil {
			log.ErrorContext(ctx, "Failed to send image usage hint", "error", err, "chat_id", chatID)
		}
		return
	}

	log.InfoContext(ctx, "Handling /image command", "chat_id", chatID, "prompt_len", len(prompt))

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionUploadPhoto})

	url, err := deps.AI.GenerateImage(ctx, prompt, deps.Config.F5AI.ImageModel, deps.Config.F5AI.ImageSize)
	if err != nil {
		log.ErrorContext(ctx, "Image generation failed", "error", err, "chat_id", chatID)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.ImageError}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send image error message", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	if _, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileString{Data: url},
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send generated photo", "error", err, "chat_id", chatID)
	}
}

// commandArgument strips the command (with or without a @botname suffix) from
// a message text and returns the remainder.
func commandArgument(text, command string) string {
	rest := strings.TrimPrefix(text, command)
	if strings.HasPrefix(rest, "@") {
		if idx := strings.IndexAny(rest, " \n"); idx != -1 {
			rest = rest[idx:]
		} else {
			rest = ""
		}
	}
	return strings.TrimSpace(rest)
}
