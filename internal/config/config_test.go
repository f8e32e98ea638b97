package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: debug
  json: true
telegram:
  main_token: "123456:ABC"
f5ai:
  api_key: "secret"
  timeout: 45s
database:
  path: "/tmp/koloau.db"
server:
  addr: ":8080"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("log config not applied: %+v", cfg.Log)
	}
	if cfg.Telegram.MainToken != "123456:ABC" {
		t.Errorf("main token = %q", cfg.Telegram.MainToken)
	}
	if cfg.F5AI.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s", cfg.F5AI.Timeout)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	// Untouched keys fall back to defaults.
	if cfg.F5AI.BaseURL != DefaultF5AIBaseURL {
		t.Errorf("base url = %q, want default", cfg.F5AI.BaseURL)
	}
	if cfg.F5AI.DefaultModel != DefaultModel {
		t.Errorf("default model = %q", cfg.F5AI.DefaultModel)
	}
	if cfg.Messages.BotError == "" {
		t.Error("default messages should be populated")
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_MAIN_TOKEN", "env:token")
	t.Setenv("BOT_F5AI_API_KEY", "env-key")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.MainToken != "env:token" {
		t.Errorf("main token = %q, want env value", cfg.Telegram.MainToken)
	}
	if cfg.F5AI.APIKey != "env-key" {
		t.Errorf("api key = %q, want env value", cfg.F5AI.APIKey)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	// No main token anywhere: validation must reject.
	path := writeConfigFile(t, `
f5ai:
  api_key: "secret"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for missing telegram.main_token")
	}
}

func TestLoadConfigRejectsBadLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: loud
telegram:
  main_token: "123456:ABC"
f5ai:
  api_key: "secret"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}
