package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath (optional, may be absent)
// 3. BOT_* environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, env and defaults still apply.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values for all optional parameters. Secrets
// default to empty strings so that BOT_* environment variables bind without
// requiring a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("telegram.main_token", "")
	v.SetDefault("telegram.builder_url", "")

	v.SetDefault("f5ai.api_key", "")
	v.SetDefault("f5ai.base_url", DefaultF5AIBaseURL)
	v.SetDefault("f5ai.timeout", DefaultF5AITimeout)
	v.SetDefault("f5ai.default_model", DefaultModel)
	v.SetDefault("f5ai.whisper_model", DefaultWhisperModel)
	v.SetDefault("f5ai.image_model", DefaultImageModel)
	v.SetDefault("f5ai.image_size", DefaultImageSize)
	v.SetDefault("f5ai.tts_model", DefaultTTSModel)
	v.SetDefault("f5ai.tts_voice", DefaultTTSVoice)
	v.SetDefault("f5ai.main_instruction", DefaultMainInstruction)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("server.addr", DefaultServerAddr)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.bot_error", DefaultMessages.BotError)
	v.SetDefault("messages.image_usage", DefaultMessages.ImageUsage)
	v.SetDefault("messages.image_error", DefaultMessages.ImageError)
	v.SetDefault("messages.tts_usage", DefaultMessages.TTSUsage)
	v.SetDefault("messages.tts_error", DefaultMessages.TTSError)
	v.SetDefault("messages.no_bots", DefaultMessages.NoBots)
	v.SetDefault("messages.model_set", DefaultMessages.ModelSet)
}
