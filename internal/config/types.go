// Package config provides configuration loading, validation, and defaults
// for the Koloau Builder application. Values come from a YAML file and from
// BOT_* environment variables, in that order of precedence.
package config

import "time"

// Config defines the application configuration parameters for all components:
// logging, the main Telegram bot, the F5AI gateway, the database, the admin
// HTTP server, and scheduled tasks.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	F5AI      F5AIConfig      `mapstructure:"f5ai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds settings for the main Koloau bot.
type TelegramConfig struct {
	MainToken  string `mapstructure:"main_token" validate:"required"`
	BuilderURL string `mapstructure:"builder_url" validate:"omitempty,url"`
}

// F5AIConfig holds settings for the F5AI gateway client.
type F5AIConfig struct {
	APIKey          string        `mapstructure:"api_key"  validate:"required"`
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	Timeout         time.Duration `mapstructure:"timeout"  validate:"min=1s,max=10m"`
	DefaultModel    string        `mapstructure:"default_model" validate:"required"`
	WhisperModel    string        `mapstructure:"whisper_model"`
	ImageModel      string        `mapstructure:"image_model"`
	ImageSize       string        `mapstructure:"image_size"`
	TTSModel        string        `mapstructure:"tts_model"`
	TTSVoice        string        `mapstructure:"tts_voice"`
	MainInstruction string        `mapstructure:"main_instruction" validate:"required"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ServerConfig holds the admin HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// TaskConfig describes one scheduled background task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds user-facing message templates. The defaults keep the
// original Russian wording of the Koloau product.
type MessagesConfig struct {
	Welcome      string `mapstructure:"welcome"       validate:"required"`
	GeneralError string `mapstructure:"general_error" validate:"required"`
	BotError     string `mapstructure:"bot_error"     validate:"required"`
	ImageUsage   string `mapstructure:"image_usage"   validate:"required"`
	ImageError   string `mapstructure:"image_error"   validate:"required"`
	TTSUsage     string `mapstructure:"tts_usage"     validate:"required"`
	TTSError     string `mapstructure:"tts_error"     validate:"required"`
	NoBots       string `mapstructure:"no_bots"       validate:"required"`
	ModelSet     string `mapstructure:"model_set"     validate:"required"`
}
