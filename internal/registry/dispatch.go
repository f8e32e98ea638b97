package registry

import (
	"context"
	"strings"

	"github.com/koloau/builder/internal/f5ai"
)

// dispatch builds the message handler for one created bot. The handler sends
// the stored instructions as the system message and the user's text as the
// user message, and replies with the completion text. A failed inference call
// produces exactly one apology message; there is no retry.
func (r *Registry) dispatch(token, instructions, model string) OnMessage {
	log := r.logger.With("token_prefix", tokenPrefix(token), "model", model)

	return func(ctx context.Context, msg Inbound) string {
		if strings.TrimSpace(msg.Text) == "" {
			return ""
		}

		messages := []f5ai.Message{
			f5ai.TextMessage("system", instructions),
			f5ai.TextMessage("user", msg.Text),
		}

		result, err := r.ai.ChatCompletion(ctx, messages, model, nil)
		if err != nil {
			log.ErrorContext(ctx, "Chat completion failed for created bot", "chat_id", msg.ChatID, "error", err)
			return r.botErrorMsg
		}

		// Best-effort analytics; a failed counter bump never affects the reply.
		go func() {
			countCtx, cancel := context.WithTimeout(context.Background(), counterTimeout)
			defer cancel()
			if err := r.store.IncrementBotMessages(countCtx, token); err != nil {
				log.Warn("Failed to increment message counter", "error", err)
			}
		}()

		return result.Text
	}
}
