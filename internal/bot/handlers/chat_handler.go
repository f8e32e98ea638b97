package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/koloau/builder/internal/f5ai"
	"github.com/koloau/builder/internal/telegram"
)

// NewChatHandler returns the default handler of the main bot. It feeds text,
// photo, voice and sticker messages through the gateway using the model the
// user picked with /start.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	// Commands are routed by registered handlers; unknown ones get no AI reply.
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	chatID := msg.Chat.ID
	userID := msg.From.ID

	content, err := h.buildContent(ctx, b, msg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to prepare message content", "error", err, "chat_id", chatID)
		h.replyError(ctx, b, chatID)
		return
	}
	if content == nil {
		return
	}

	if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil {
		log.WarnContext(ctx, "Failed to send typing action", "error", err, "chat_id", chatID)
	}

	model := userModel(ctx, deps, userID)
	messages := []f5ai.Message{
		f5ai.TextMessage("system", deps.Config.F5AI.MainInstruction),
		{Role: "user", Content: content},
	}

	result, err := deps.AI.ChatCompletion(ctx, messages, model, nil)
	if err != nil {
		log.ErrorContext(ctx, "Chat completion failed", "error", err, "chat_id", chatID, "model", model)
		h.replyError(ctx, b, chatID)
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: result.Text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// buildContent turns an incoming message into chat content. It returns either
// a plain string or a slice of content parts, or nil when the message carries
// nothing the bot can answer.
func (h chatHandler) buildContent(ctx context.Context, b *bot.Bot, msg *models.Message) (any, error) {
	switch {
	case msg.Text != "":
		return msg.Text, nil

	case len(msg.Photo) > 0:
		// The last entry is the largest rendition.
		photo := msg.Photo[len(msg.Photo)-1]
		data, mimeType, err := telegram.DownloadFile(ctx, b, photo.FileID)
		if err != nil {
			return nil, fmt.Errorf("download photo: %w", err)
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
		caption := msg.Caption
		if caption == "" {
			caption = "Что на этом изображении?"
		}
		return []f5ai.ContentPart{f5ai.TextPart(caption), f5ai.ImagePart(dataURL)}, nil

	case msg.Voice != nil:
		data, _, err := telegram.DownloadFile(ctx, b, msg.Voice.FileID)
		if err != nil {
			return nil, fmt.Errorf("download voice: %w", err)
		}
		text, err := h.deps.AI.Transcribe(ctx, data, h.deps.Config.F5AI.WhisperModel)
		if err != nil {
			return nil, fmt.Errorf("transcribe voice: %w", err)
		}
		if text == "" {
			text = "пусто"
		}
		return fmt.Sprintf("[Голосовое сообщение]: %s", text), nil

	case msg.Sticker != nil:
		desc := msg.Sticker.Emoji
		if desc == "" {
			desc = "без текста"
		}
		return fmt.Sprintf("[Стикер]: %s", desc), nil
	}
	return nil, nil
}

func (h chatHandler) replyError(ctx context.Context, b *bot.Bot, chatID int64) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.GeneralError})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send error reply", "error", err, "chat_id", chatID)
	}
}
