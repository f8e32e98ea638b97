package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence operations consumed by the bot registry and
// the main bot. Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertBot inserts a bot configuration or updates it in place when the
	// token already exists. The message counter and creation timestamp of an
	// existing row are preserved.
	UpsertBot(ctx context.Context, bot *BotConfig) error

	// DeleteBot removes a bot configuration entirely.
	DeleteBot(ctx context.Context, token string) error

	// SetBotActive updates only the is_active flag of a bot row.
	SetBotActive(ctx context.Context, token string, active bool) error

	// GetBot retrieves a bot configuration by token. Returns nil, nil if not found.
	GetBot(ctx context.Context, token string) (*BotConfig, error)

	// ListBots retrieves all bot configurations ordered by creation time.
	ListBots(ctx context.Context) ([]BotConfig, error)

	// IncrementBotMessages bumps the informational message counter of a bot.
	IncrementBotMessages(ctx context.Context, token string) error

	// GetUserModel returns the model a user selected for the main bot,
	// or the empty string when the user has no stored preference.
	GetUserModel(ctx context.Context, userID int64) (string, error)

	// SetUserModel stores or replaces a user's model preference.
	SetUserModel(ctx context.Context, userID int64, model string) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertBot inserts or updates a bot configuration row keyed by token.
func (s *sqlxStore) UpsertBot(ctx context.Context, bot *BotConfig) error {
	if bot == nil {
		return fmt.Errorf("cannot save nil bot config")
	}
	if bot.Token == "" {
		return fmt.Errorf("bot config must have a non-empty token")
	}
	if bot.Instructions == "" {
		return fmt.Errorf("bot config must have non-empty instructions")
	}
	if bot.Model == "" {
		return fmt.Errorf("bot config must have a non-empty model")
	}

	now := time.Now().UTC()
	if bot.CreatedAt.IsZero() {
		bot.CreatedAt = now
	}
	bot.UpdatedAt = now

	query := `
        INSERT INTO bots (token, instructions, model, is_active, message_count, created_at, updated_at)
        VALUES (:token, :instructions, :model, :is_active, 0, :created_at, :updated_at)
        ON CONFLICT(token) DO UPDATE SET
            instructions = excluded.instructions,
            model        = excluded.model,
            is_active    = excluded.is_active,
            updated_at   = excluded.updated_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, bot); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting bot", "token_prefix", tokenPrefix(bot.Token), "error", err)
		return fmt.Errorf("failed to upsert bot: %w", err)
	}

	s.logger.DebugContext(ctx, "Bot config saved", "token_prefix", tokenPrefix(bot.Token), "model", bot.Model, "is_active", bot.IsActive)
	return nil
}

// DeleteBot removes a bot row. Deleting a nonexistent token is not an error.
func (s *sqlxStore) DeleteBot(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM bots WHERE token = ?`, token); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting bot", "token_prefix", tokenPrefix(token), "error", err)
		return fmt.Errorf("failed to delete bot: %w", err)
	}

	s.logger.DebugContext(ctx, "Bot config deleted", "token_prefix", tokenPrefix(token))
	return nil
}

// SetBotActive updates the is_active flag of an existing bot row.
func (s *sqlxStore) SetBotActive(ctx context.Context, token string, active bool) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	query := `UPDATE bots SET is_active = ?, updated_at = ? WHERE token = ?`
	if _, err := s.db.ExecContext(ctx, query, active, time.Now().UTC(), token); err != nil {
		s.logger.ErrorContext(ctx, "Error updating bot active flag", "token_prefix", tokenPrefix(token), "error", err)
		return fmt.Errorf("failed to set bot active flag: %w", err)
	}

	return nil
}

// GetBot retrieves a bot configuration by token. Returns nil, nil if not found.
func (s *sqlxStore) GetBot(ctx context.Context, token string) (*BotConfig, error) {
	if token == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}

	var bot BotConfig
	query := `SELECT token, instructions, model, is_active, message_count, created_at, updated_at
	          FROM bots WHERE token = ?`

	err := s.db.GetContext(ctx, &bot, query, token)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No bot config found", "token_prefix", tokenPrefix(token))
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting bot config", "token_prefix", tokenPrefix(token), "error", err)
		return nil, fmt.Errorf("failed to get bot config: %w", err)
	}

	return &bot, nil
}

// ListBots retrieves all bot configurations ordered by creation time.
func (s *sqlxStore) ListBots(ctx context.Context) ([]BotConfig, error) {
	var bots []BotConfig
	query := `SELECT token, instructions, model, is_active, message_count, created_at, updated_at
	          FROM bots ORDER BY created_at ASC`

	if err := s.db.SelectContext(ctx, &bots, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing bots", "error", err)
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched bot configs", "count", len(bots))
	return bots, nil
}

// IncrementBotMessages bumps the informational message counter of a bot.
func (s *sqlxStore) IncrementBotMessages(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	query := `UPDATE bots SET message_count = message_count + 1, updated_at = ? WHERE token = ?`
	if _, err := s.db.ExecContext(ctx, query, time.Now().UTC(), token); err != nil {
		return fmt.Errorf("failed to increment message counter: %w", err)
	}

	return nil
}

// GetUserModel returns the stored model preference for a user, or "" when absent.
func (s *sqlxStore) GetUserModel(ctx context.Context, userID int64) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("user_id cannot be zero")
	}

	var model string
	err := s.db.GetContext(ctx, &model, `SELECT model FROM user_settings WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user model", "user_id", userID, "error", err)
		return "", fmt.Errorf("failed to get user model for user %d: %w", userID, err)
	}

	return model, nil
}

// SetUserModel stores or replaces a user's model preference.
func (s *sqlxStore) SetUserModel(ctx context.Context, userID int64, model string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO user_settings (user_id, model, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            model      = excluded.model,
            updated_at = excluded.updated_at;
    `

	if _, err := s.db.ExecContext(ctx, query, userID, model, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error setting user model", "user_id", userID, "model", model, "error", err)
		return fmt.Errorf("failed to set user model for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "User model saved", "user_id", userID, "model", model)
	return nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

// tokenPrefix shortens a bot token for logging so secrets never land in logs.
func tokenPrefix(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
