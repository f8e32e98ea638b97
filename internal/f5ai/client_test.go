package f5ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/koloau/builder/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.F5AIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestChatCompletionChoicesShape(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "test-key" {
			t.Errorf("X-Auth-Token = %q, want test-key", got)
		}

		var req struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: model=%q messages=%d", req.Model, len(req.Messages))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Привет!"}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13},
		})
	})

	messages := []Message{
		TextMessage("system", "Будь вежлив."),
		TextMessage("user", "привет"),
	}
	result, err := client.ChatCompletion(context.Background(), messages, "gpt-4o-mini", nil)
	if err != nil {
		t.Fatalf("chat completion: %v", err)
	}
	if result.Text != "Привет!" {
		t.Errorf("text = %q", result.Text)
	}
	if result.Usage.TotalTokens != 13 {
		t.Errorf("total tokens = %d, want 13", result.Usage.TotalTokens)
	}
}

func TestChatCompletionFlatMessageShape(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "flat reply"},
		})
	})

	result, err := client.ChatCompletion(context.Background(), []Message{TextMessage("user", "hi")}, "m", nil)
	if err != nil {
		t.Fatalf("chat completion: %v", err)
	}
	if result.Text != "flat reply" {
		t.Errorf("text = %q, want flat reply", result.Text)
	}
}

func TestChatCompletionEmptyResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.ChatCompletion(context.Background(), []Message{TextMessage("user", "hi")}, "m", nil)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestChatCompletionBlankContent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "   "}},
			},
		})
	})

	_, err := client.ChatCompletion(context.Background(), []Message{TextMessage("user", "hi")}, "m", nil)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestChatCompletionGatewayError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "model overloaded"}`, http.StatusBadGateway)
	})

	_, err := client.ChatCompletion(context.Background(), []Message{TextMessage("user", "hi")}, "m", nil)
	if err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestTranscribe(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q, want whisper-1", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "voice.ogg" {
			t.Errorf("filename = %q, want voice.ogg", header.Filename)
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "привет мир"})
	})

	text, err := client.Transcribe(context.Background(), []byte("fake-ogg-bytes"), "whisper-1")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "привет мир" {
		t.Errorf("text = %q", text)
	}
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://cdn.example/img.png"}},
		})
	})

	url, err := client.GenerateImage(context.Background(), "a cat", "dall-e-3", "1024x1024")
	if err != nil {
		t.Fatalf("generate image: %v", err)
	}
	if url != "https://cdn.example/img.png" {
		t.Errorf("url = %q", url)
	}
}

func TestGenerateSpeechReturnsRawAudio(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("mp3-bytes"))
	})

	audio, err := client.GenerateSpeech(context.Background(), "привет", "tts-1", "alloy")
	if err != nil {
		t.Fatalf("generate speech: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.F5AIConfig{BaseURL: "https://api.f5ai.ru/v2"}, nil)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}
