package database

import "time"

// BotConfig represents one registered builder bot. The token is the primary
// key, so at most one configuration exists per Telegram bot token.
type BotConfig struct {
	Token        string    `db:"token" json:"token"`
	Instructions string    `db:"instructions" json:"instructions"`
	Model        string    `db:"model" json:"model"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	MessageCount int64     `db:"message_count" json:"messageCount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSettings stores the inference model a user selected for the main bot.
type UserSettings struct {
	UserID    int64     `db:"user_id"`
	Model     string    `db:"model"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
