package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/koloau/builder/internal/f5ai"
)

// NewCategoryHandler returns a callback handler for "cat_<vendor>" buttons.
// It swaps the category picker for the vendor's model list in place.
func NewCategoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "category")

		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		catID := strings.TrimPrefix(cb.Data, "cat_")
		group, ok := f5ai.CatalogGroup(catID)
		if !ok {
			answerCallback(ctx, b, log, cb.ID, "Категория не найдена")
			return
		}

		answerCallback(ctx, b, log, cb.ID, "")

		chatID, messageID, ok := callbackMessage(cb)
		if !ok {
			log.WarnContext(ctx, "Callback message inaccessible, cannot edit", "callback_id", cb.ID)
			return
		}

		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        fmt.Sprintf("Выбери модель из категории *%s*:", group.Label),
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: modelKeyboard(group),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to edit category message", "error", err, "chat_id", chatID)
		}
	}
}

// NewBackToCategoriesHandler returns a callback handler for the back button
// of the model picker.
func NewBackToCategoriesHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "back_to_cats")

		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		answerCallback(ctx, b, log, cb.ID, "")

		chatID, messageID, ok := callbackMessage(cb)
		if !ok {
			log.WarnContext(ctx, "Callback message inaccessible, cannot edit", "callback_id", cb.ID)
			return
		}

		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        "Выбери категорию моделей:",
			ReplyMarkup: categoryKeyboard(deps.Config.Telegram.BuilderURL),
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to edit back-to-categories message", "error", err, "chat_id", chatID)
		}
	}
}

// NewSetModelHandler returns a callback handler for "set_model_<id>" buttons.
// It stores the selection as the user's model for the main bot.
func NewSetModelHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "set_model")

		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		model := strings.TrimPrefix(cb.Data, "set_model_")
		if !f5ai.KnownModel(model) {
			answerCallback(ctx, b, log, cb.ID, "Модель не найдена")
			return
		}

		if err := deps.Store.SetUserModel(ctx, cb.From.ID, model); err != nil {
			log.ErrorContext(ctx, "Failed to store user model", "user_id", cb.From.ID, "model", model, "error", err)
			answerCallback(ctx, b, log, cb.ID, deps.Config.Messages.GeneralError)
			return
		}

		log.InfoContext(ctx, "User model updated", "user_id", cb.From.ID, "model", model)
		answerCallback(ctx, b, log, cb.ID, "Модель установлена!")

		chatID, _, ok := callbackMessage(cb)
		if !ok {
			return
		}
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      fmt.Sprintf(deps.Config.Messages.ModelSet, model),
			ParseMode: models.ParseModeMarkdown,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send model confirmation", "error", err, "chat_id", chatID)
		}
	}
}

// callbackMessage extracts the chat and message IDs a callback query refers
// to. The message may be inaccessible when it is too old.
func callbackMessage(cb *models.CallbackQuery) (chatID int64, messageID int, ok bool) {
	if cb.Message.Message == nil {
		return 0, 0, false
	}
	return cb.Message.Message.Chat.ID, cb.Message.Message.ID, true
}

func answerCallback(ctx context.Context, b *bot.Bot, log *slog.Logger, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err, "callback_id", callbackID)
	}
}
