package handlers

import (
	"bytes"
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTTSHandler returns a handler for the /tts command. It synthesizes speech
// for the given text and replies with a voice message.
func NewTTSHandler(deps HandlerDeps) bot.HandlerFunc {
	return ttsHandler{deps}.Handle
}

type ttsHandler struct {
	deps HandlerDeps
}

func (h ttsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "tts")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID

	text := strings.TrimSpace(commandArgument(msg.Text, "/tts"))
	if text == "" {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.TTSUsage}); err != nil {
			log.ErrorContext(ctx, "Failed to send tts usage hint", "error", err, "chat_id", chatID)
		}
		return
	}

	log.InfoContext(ctx, "Handling /tts command", "chat_id", chatID, "text_len", len(text))

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionRecordVoice})

	audio, err := deps.AI.GenerateSpeech(ctx, text, deps.Config.F5AI.TTSModel, deps.Config.F5AI.TTSVoice)
	if err != nil {
		log.ErrorContext(ctx, "Speech synthesis failed", "error", err, "chat_id", chatID)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Messages.TTSError}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send tts error message", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	if _, err := b.SendVoice(ctx, &bot.SendVoiceParams{
		ChatID: chatID,
		Voice:  &models.InputFileUpload{Filename: "speech.mp3", Data: bytes.NewReader(audio)},
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send voice message", "error", err, "chat_id", chatID)
	}
}
