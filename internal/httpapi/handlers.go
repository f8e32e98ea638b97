package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koloau/builder/internal/config"
	"github.com/koloau/builder/internal/f5ai"
	"github.com/koloau/builder/internal/registry"
)

// Handler carries the dependencies of the admin API endpoints.
type Handler struct {
	logger   *slog.Logger
	cfg      *config.Config
	registry *registry.Registry
	ai       AIClient
}

// NewHandler creates the endpoint handler set.
func NewHandler(log *slog.Logger, cfg *config.Config, reg *registry.Registry, ai AIClient) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		logger:   log.With("component", "httpapi"),
		cfg:      cfg,
		registry: reg,
		ai:       ai,
	}
}

func ok(c *gin.Context, body gin.H) {
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"message": msg,
	})
}

// Ping is a liveness probe.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// ListModels returns the model catalog grouped by vendor.
func (h *Handler) ListModels(c *gin.Context) {
	ok(c, gin.H{"models": f5ai.Catalog()})
}

// ListBots returns every stored bot with its live status.
func (h *Handler) ListBots(c *gin.Context) {
	ok(c, gin.H{"bots": h.registry.List(c.Request.Context())})
}

type createBotReq struct {
	Token        string `json:"token" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
	Model        string `json:"model"`
}

// CreateBot registers, starts and persists a new bot. Recreating an existing
// token replaces its listener and updates the stored config.
func (h *Handler) CreateBot(c *gin.Context) {
	var req createBotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "token and instructions are required")
		return
	}

	err := h.registry.Create(c.Request.Context(), req.Token, req.Instructions, req.Model, true)
	if err != nil {
		h.logger.Error("Failed to create bot", "error", err)
		fail(c, http.StatusInternalServerError, "failed to start bot: check the token")
		return
	}

	ok(c, gin.H{"message": "bot created and started"})
}

type tokenReq struct {
	Token string `json:"token" binding:"required"`
}

// ToggleBot flips a bot between active and inactive.
func (h *Handler) ToggleBot(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "token is required")
		return
	}

	isActive, err := h.registry.Toggle(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, registry.ErrBotNotFound) {
			fail(c, http.StatusNotFound, "bot not found")
			return
		}
		h.logger.Error("Failed to toggle bot", "error", err)
		fail(c, http.StatusInternalServerError, "failed to toggle bot")
		return
	}

	ok(c, gin.H{"isActive": isActive})
}

// StopBot stops a bot's listener and deletes its stored config.
func (h *Handler) StopBot(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.registry.Stop(c.Request.Context(), req.Token, true); err != nil {
		h.logger.Error("Failed to stop bot", "error", err)
		fail(c, http.StatusInternalServerError, "failed to stop bot")
		return
	}

	ok(c, gin.H{"message": "bot stopped and removed"})
}

type chatReq struct {
	Message     string         `json:"message" binding:"required"`
	Model       string         `json:"model"`
	ChatHistory []chatTurnBody `json:"chatHistory"`
}

type chatTurnBody struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat is the web panel playground: one completion over an optional history.
func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "message is required")
		return
	}

	model := req.Model
	if model == "" {
		model = h.cfg.F5AI.DefaultModel
	}

	messages := make([]f5ai.Message, 0, len(req.ChatHistory)+1)
	for _, turn := range req.ChatHistory {
		if turn.Role == "" || turn.Content == "" {
			continue
		}
		messages = append(messages, f5ai.TextMessage(turn.Role, turn.Content))
	}
	messages = append(messages, f5ai.TextMessage("user", req.Message))

	result, err := h.ai.ChatCompletion(c.Request.Context(), messages, model, nil)
	if err != nil {
		h.logger.Error("Playground chat completion failed", "error", err, "model", model)
		fail(c, http.StatusInternalServerError, "chat completion failed")
		return
	}

	ok(c, gin.H{"response": result.Text})
}
