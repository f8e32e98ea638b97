// Package f5ai implements the client for the F5AI gateway, an OpenAI-compatible
// API that fronts chat, transcription, image, and speech models. Authentication
// uses the X-Auth-Token header instead of a bearer token.
package f5ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/koloau/builder/internal/config"
)

var (
	ErrEmptyResponse = errors.New("empty response from gateway")
	ErrNoContent     = errors.New("no message content in gateway response")
)

// Client talks to the F5AI gateway. All calls are synchronous with the
// configured timeout and no retries; a timeout or non-2xx response surfaces
// as an error to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new F5AI gateway client from the application configuration.
func NewClient(cfg config.F5AIConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("f5ai API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "f5ai_client"),
	}

	c.logger.Info("F5AI client initialized", "base_url", c.baseURL, "timeout", cfg.Timeout)
	return c, nil
}

// ChatCompletion sends a conversation to the gateway and returns the reply text.
// The gateway answers either with the standard OpenAI choices array or with a
// flat message object; both shapes are normalized into one ChatResult.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, model string, opts *ChatOptions) (*ChatResult, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	reqBody := map[string]any{
		"model":    model,
		"messages": messages,
	}
	if opts != nil {
		if opts.Temperature != nil {
			reqBody["temperature"] = *opts.Temperature
		}
		if opts.MaxTokens > 0 {
			reqBody["max_tokens"] = opts.MaxTokens
		}
	}

	respBody, err := c.postJSON(ctx, "/chat/completions", reqBody)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
		Usage Usage `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat response: %w", err)
	}

	var text string
	switch {
	case len(payload.Choices) > 0:
		text = payload.Choices[0].Message.Content
	case payload.Message != nil:
		text = payload.Message.Content
	default:
		return nil, ErrEmptyResponse
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	c.logger.DebugContext(ctx, "Chat completion succeeded", "model", model, "total_tokens", payload.Usage.TotalTokens)
	return &ChatResult{Text: text, Usage: payload.Usage}, nil
}

// Transcribe sends audio bytes to the gateway's transcription endpoint and
// returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, model string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio data provided")
	}
	if model == "" {
		return "", fmt.Errorf("model cannot be empty")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "voice.ogg")
	if err != nil {
		return "", fmt.Errorf("failed to create multipart file field: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField("model", model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	respBody, err := c.send(ctx, http.MethodPost, "/audio/transcriptions", &buf, writer.FormDataContentType())
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal transcription response: %w", err)
	}

	return payload.Text, nil
}

// GenerateImage asks the gateway to render an image and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, prompt, model, size string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	reqBody := map[string]any{
		"model":  model,
		"prompt": prompt,
	}
	if size != "" {
		reqBody["size"] = size
	}

	respBody, err := c.postJSON(ctx, "/images/generations", reqBody)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	var payload struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal image response: %w", err)
	}
	if len(payload.Data) == 0 || payload.Data[0].URL == "" {
		return "", ErrEmptyResponse
	}

	return payload.Data[0].URL, nil
}

// GenerateSpeech synthesizes speech for the given text and returns raw audio bytes.
func (c *Client) GenerateSpeech(ctx context.Context, text, model, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	reqBody := map[string]any{
		"model": model,
		"input": text,
		"voice": voice,
	}

	audio, err := c.postJSON(ctx, "/audio/speech", reqBody)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrEmptyResponse
	}

	return audio, nil
}

// ListModels fetches the models the gateway currently advertises.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	respBody, err := c.send(ctx, http.MethodGet, "/models", nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var payload struct {
		Data []ModelInfo `json:"data"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal models response: %w", err)
	}

	return payload.Data, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.send(ctx, http.MethodPost, path, bytes.NewReader(reqBody), "application/json")
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WarnContext(ctx, "Gateway returned an error status", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, truncateBody(respBody))
	}

	return respBody, nil
}

func truncateBody(body []byte) string {
	const maxLen = 512
	s := string(body)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
