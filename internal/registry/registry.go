// Package registry implements the bot registry: a token-keyed set of running
// Telegram bot listeners with create, stop, toggle, and list operations, and
// persistence of their configuration. It is the core state machine of the
// builder; each token is in exactly one of the states absent, running, or
// stopped.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/koloau/builder/internal/database"
	"github.com/koloau/builder/internal/f5ai"
)

// ErrBotNotFound is returned when an operation references a token that has no
// stored configuration.
var ErrBotNotFound = errors.New("bot not found")

const counterTimeout = 5 * time.Second

// ChatCompleter is the inference capability the registry's message dispatch uses.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, messages []f5ai.Message, model string, opts *f5ai.ChatOptions) (*f5ai.ChatResult, error)
}

// BotStatus is a stored bot configuration annotated with the live state of
// this process. Status reflects the in-memory handle map, not the stored
// intent, so it can disagree with IsActive right after a restart.
type BotStatus struct {
	database.BotConfig
	Status string `json:"status"`
}

// Registry owns the mapping from bot token to running listener handle. The
// handle map is mutated only under r.mu, which is held across the whole
// create and stop paths so that two listeners can never coexist on one token.
type Registry struct {
	logger       *slog.Logger
	store        database.Store
	messenger    Messenger
	ai           ChatCompleter
	defaultModel string
	botErrorMsg  string

	mu      sync.RWMutex
	handles map[string]Handle
}

// NewRegistry creates a bot registry. defaultModel is used when a bot is
// created without an explicit model; botErrorMsg is the fixed apology sent to
// end users when an inference call fails.
func NewRegistry(logger *slog.Logger, store database.Store, messenger Messenger, ai ChatCompleter, defaultModel, botErrorMsg string) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:       logger.With("component", "bot_registry"),
		store:        store,
		messenger:    messenger,
		ai:           ai,
		defaultModel: defaultModel,
		botErrorMsg:  botErrorMsg,
		handles:      make(map[string]Handle),
	}
}

// Create starts a listener for the given token bound to the instructions and
// model, replacing any listener already running on that token. If persist is
// true the configuration is upserted with is_active=true; persist=false is
// used when restoring from storage at startup. A listener that fails to start
// leaves the registry without a handle for the token; there is no retry.
func (r *Registry) Create(ctx context.Context, token, instructions, model string, persist bool) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if strings.TrimSpace(instructions) == "" {
		return fmt.Errorf("instructions cannot be empty")
	}
	if model == "" {
		model = r.defaultModel
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Two simultaneous listeners on one token race for update delivery and
	// must never coexist.
	r.stopLocked(ctx, token)

	handle, err := r.messenger.StartListener(ctx, token, r.dispatch(token, instructions, model))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to start bot listener", "token_prefix", tokenPrefix(token), "error", err)
		return fmt.Errorf("failed to start bot listener: %w", err)
	}
	r.handles[token] = handle

	r.logger.InfoContext(ctx, "Bot listener started", "token_prefix", tokenPrefix(token), "model", model)

	if persist {
		cfg := &database.BotConfig{
			Token:        token,
			Instructions: instructions,
			Model:        model,
			IsActive:     true,
		}
		if err := r.store.UpsertBot(ctx, cfg); err != nil {
			// The listener keeps running; the row is reconciled on the next
			// create or toggle for this token.
			r.logger.ErrorContext(ctx, "Failed to persist bot config", "token_prefix", tokenPrefix(token), "error", err)
			return fmt.Errorf("bot started but config not persisted: %w", err)
		}
	}

	return nil
}

// Stop terminates the listener for the token, if any. With del=true the
// stored row is removed entirely; otherwise it is kept with is_active=false
// so the bot can be resumed via Toggle. Stopping the listener itself is
// best-effort: a listener that is already dead must not block cleanup.
func (r *Registry) Stop(ctx context.Context, token string, del bool) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	r.mu.Lock()
	r.stopLocked(ctx, token)
	r.mu.Unlock()

	if del {
		if err := r.store.DeleteBot(ctx, token); err != nil {
			return fmt.Errorf("failed to delete bot config: %w", err)
		}
		return nil
	}

	if err := r.store.SetBotActive(ctx, token, false); err != nil {
		return fmt.Errorf("failed to deactivate bot config: %w", err)
	}
	return nil
}

// Toggle flips the stored is_active flag of a bot and reconciles the live
// listener with the new value. It returns the new flag. Toggling a token with
// no stored configuration returns ErrBotNotFound.
func (r *Registry) Toggle(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("token cannot be empty")
	}

	cfg, err := r.store.GetBot(ctx, token)
	if err != nil {
		return false, fmt.Errorf("failed to read bot config: %w", err)
	}
	if cfg == nil {
		return false, ErrBotNotFound
	}

	if cfg.IsActive {
		if err := r.Stop(ctx, token, false); err != nil {
			return false, err
		}
		return false, nil
	}

	// Create with persist=false does not touch is_active, so the flag is
	// updated explicitly before the listener is restarted.
	if err := r.store.SetBotActive(ctx, token, true); err != nil {
		return false, fmt.Errorf("failed to activate bot config: %w", err)
	}
	if err := r.Create(ctx, token, cfg.Instructions, cfg.Model, false); err != nil {
		// The stored intent is active; the listener is absent until the next
		// create or toggle. No automatic retry.
		r.logger.ErrorContext(ctx, "Failed to restart bot listener on toggle", "token_prefix", tokenPrefix(token), "error", err)
	}
	return true, nil
}

// List returns every stored bot configuration annotated with the live status
// of this process. A storage failure degrades to an empty list so that the
// administrative surface stays available.
func (r *Registry) List(ctx context.Context) []BotStatus {
	rows, err := r.store.ListBots(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list bot configs, returning empty set", "error", err)
		return []BotStatus{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]BotStatus, 0, len(rows))
	for _, row := range rows {
		status := "stopped"
		if _, ok := r.handles[row.Token]; ok {
			status = "running"
		}
		out = append(out, BotStatus{BotConfig: row, Status: status})
	}
	return out
}

// LoadAll restores listeners for every stored bot with is_active=true. It is
// called once at startup. Individual start failures are logged and skipped;
// tokens are independent, so one broken bot must not prevent the rest from
// coming up.
func (r *Registry) LoadAll(ctx context.Context) error {
	rows, err := r.store.ListBots(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored bots: %w", err)
	}

	started, failed := 0, 0
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		if err := r.Create(ctx, row.Token, row.Instructions, row.Model, false); err != nil {
			r.logger.ErrorContext(ctx, "Failed to restore bot listener", "token_prefix", tokenPrefix(row.Token), "error", err)
			failed++
			continue
		}
		started++
	}

	r.logger.InfoContext(ctx, "Restored bot listeners from storage", "started", started, "failed", failed, "total", len(rows))
	return nil
}

// Shutdown stops all running listeners without touching stored configuration.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token := range r.handles {
		r.stopLocked(ctx, token)
	}
}

// stopLocked removes the handle for token from the map and stops it
// best-effort. Callers must hold r.mu.
func (r *Registry) stopLocked(ctx context.Context, token string) {
	handle, ok := r.handles[token]
	if !ok {
		return
	}
	if err := handle.Stop(); err != nil {
		// A listener that is already dead should not block cleanup.
		r.logger.WarnContext(ctx, "Error stopping bot listener", "token_prefix", tokenPrefix(token), "error", err)
	}
	delete(r.handles, token)
}

func tokenPrefix(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
