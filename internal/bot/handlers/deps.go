package handlers

import (
	"context"
	"log/slog"

	"github.com/koloau/builder/internal/config"
	"github.com/koloau/builder/internal/database"
	"github.com/koloau/builder/internal/f5ai"
	"github.com/koloau/builder/internal/registry"
)

// AIClient is the slice of the F5AI gateway the main bot handlers use.
type AIClient interface {
	ChatCompletion(ctx context.Context, messages []f5ai.Message, model string, opts *f5ai.ChatOptions) (*f5ai.ChatResult, error)
	Transcribe(ctx context.Context, audio []byte, model string) (string, error)
	GenerateImage(ctx context.Context, prompt, model, size string) (string, error)
	GenerateSpeech(ctx context.Context, text, model, voice string) ([]byte, error)
}

// HandlerDeps provides dependencies for the main bot's handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	AI       AIClient
	Registry *registry.Registry
}
