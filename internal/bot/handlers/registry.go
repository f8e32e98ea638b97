// Package handlers contains the main Koloau bot's command, callback, and
// message handlers, along with their registration metadata.
package handlers

import (
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a handler with the metadata needed to register it.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all main bot handlers:
// slash commands and the model-selection callback queries.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/image"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "image",
		Handler:     NewImageHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/tts"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "tts",
		Handler:     NewTTSHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/my_bots"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "my_bots",
		Handler:     NewMyBotsHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	handlers["cat_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "cat_",
		Handler:     NewCategoryHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["back_to_cats"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "back_to_cats",
		Handler:     NewBackToCategoriesHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
	}
	handlers["set_model_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "set_model_",
		Handler:     NewSetModelHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}

// Register binds the handler map to a bot instance.
func Register(b *tgbot.Bot, log *slog.Logger, registered map[string]RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	for name, rh := range registered {
		if rh.Handler == nil {
			log.Warn("Skipping registration for nil handler", "name", name)
			continue
		}
		b.RegisterHandler(rh.HandlerType, rh.Pattern, rh.MatchType, rh.Handler)
		log.Debug("Registered handler", "name", name, "pattern", rh.Pattern, "match_type", rh.MatchType)
	}

	log.Info("Registered Telegram handlers", "count", len(registered))
	return nil
}
