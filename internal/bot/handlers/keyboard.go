package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/koloau/builder/internal/f5ai"
)

// categoryKeyboard builds the vendor category picker, two buttons per row,
// with an optional link to the web builder at the bottom.
func categoryKeyboard(builderURL string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton

	for _, group := range f5ai.Catalog() {
		row = append(row, models.InlineKeyboardButton{
			Text:         "📂 " + group.Label,
			CallbackData: "cat_" + group.ID,
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if builderURL != "" {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "🌐 Открыть Билдер", URL: builderURL},
		})
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// modelKeyboard builds the model picker for one vendor group, one model per
// row, with a back button at the bottom.
func modelKeyboard(group f5ai.ModelGroup) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(group.Models)+1)
	for _, m := range group.Models {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: m.Label, CallbackData: "set_model_" + m.ID},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️ Назад", CallbackData: "back_to_cats"},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
