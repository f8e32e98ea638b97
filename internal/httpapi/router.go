// Package httpapi exposes the admin HTTP API used by the Koloau web panel:
// bot management, the model catalog and a playground chat endpoint.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koloau/builder/internal/config"
	"github.com/koloau/builder/internal/f5ai"
	"github.com/koloau/builder/internal/registry"
)

// NewRouter builds the gin engine with all admin API routes registered.
func NewRouter(log *slog.Logger, cfg *config.Config, reg *registry.Registry, ai AIClient) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	h := NewHandler(log, cfg, reg, ai)

	r.GET("/ping", h.Ping)

	api := r.Group("/api")
	api.GET("/models", h.ListModels)
	api.GET("/bots/list", h.ListBots)
	api.POST("/bots/create", h.CreateBot)
	api.POST("/bots/toggle", h.ToggleBot)
	api.POST("/bots/stop", h.StopBot)
	api.POST("/chat", h.Chat)

	return r
}

// NewServer wraps the router in an http.Server bound to the configured address.
func NewServer(log *slog.Logger, cfg *config.Config, reg *registry.Registry, ai AIClient) *http.Server {
	return &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: NewRouter(log, cfg, reg, ai),
	}
}

// AIClient is the slice of the F5AI gateway the playground chat endpoint uses.
type AIClient interface {
	ChatCompletion(ctx context.Context, messages []f5ai.Message, model string, opts *f5ai.ChatOptions) (*f5ai.ChatResult, error)
}
