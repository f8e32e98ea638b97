package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koloau/builder/internal/config"
	"github.com/koloau/builder/internal/database"
	"github.com/koloau/builder/internal/f5ai"
	"github.com/koloau/builder/internal/registry"
)

type stubHandle struct{}

func (stubHandle) Stop() error { return nil }

// stubMessenger starts listeners unconditionally, or fails for marked tokens.
type stubMessenger struct {
	failFor map[string]bool
}

func (m *stubMessenger) StartListener(_ context.Context, token string, _ registry.OnMessage) (registry.Handle, error) {
	if m.failFor[token] {
		return nil, errors.New("invalid token")
	}
	return stubHandle{}, nil
}

type stubStore struct {
	mu   sync.Mutex
	bots map[string]database.BotConfig
}

func newStubStore() *stubStore {
	return &stubStore{bots: make(map[string]database.BotConfig)}
}

func (s *stubStore) Ping(context.Context) error { return nil }

func (s *stubStore) UpsertBot(_ context.Context, bot *database.BotConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *bot
	if existing, ok := s.bots[bot.Token]; ok {
		stored.CreatedAt = existing.CreatedAt
		stored.MessageCount = existing.MessageCount
	} else {
		stored.CreatedAt = time.Now()
	}
	s.bots[bot.Token] = stored
	return nil
}

func (s *stubStore) DeleteBot(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bots, token)
	return nil
}

func (s *stubStore) SetBotActive(_ context.Context, token string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bot, ok := s.bots[token]
	if !ok {
		return fmt.Errorf("no row")
	}
	bot.IsActive = active
	s.bots[token] = bot
	return nil
}

func (s *stubStore) GetBot(_ context.Context, token string) (*database.BotConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bot, ok := s.bots[token]
	if !ok {
		return nil, nil
	}
	return &bot, nil
}

func (s *stubStore) ListBots(context.Context) ([]database.BotConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]database.BotConfig, 0, len(s.bots))
	for _, bot := range s.bots {
		out = append(out, bot)
	}
	return out, nil
}

func (s *stubStore) IncrementBotMessages(context.Context, string) error { return nil }

func (s *stubStore) GetUserModel(context.Context, int64) (string, error) { return "", nil }

func (s *stubStore) SetUserModel(context.Context, int64, string) error { return nil }

func (s *stubStore) RunSQLMaintenance(context.Context) error { return nil }

type stubAI struct {
	reply string
	err   error
}

func (a *stubAI) ChatCompletion(context.Context, []f5ai.Message, string, *f5ai.ChatOptions) (*f5ai.ChatResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &f5ai.ChatResult{Text: a.reply}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubMessenger, *stubStore, *stubAI) {
	t.Helper()

	messenger := &stubMessenger{failFor: make(map[string]bool)}
	store := newStubStore()
	ai := &stubAI{reply: "hello from model"}
	cfg := &config.Config{}
	cfg.F5AI.DefaultModel = "gpt-4o-mini"
	cfg.Messages.BotError = "sorry"

	reg := registry.NewRegistry(nil, store, messenger, ai, cfg.F5AI.DefaultModel, cfg.Messages.BotError)
	router := NewRouter(nil, cfg, reg, ai)
	return router, messenger, store, ai
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return rec, parsed
}

func TestListModels(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/models", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["success"] != true {
		t.Error("expected success")
	}
	groups, ok := body["models"].([]any)
	if !ok || len(groups) == 0 {
		t.Fatalf("expected model groups, got %v", body["models"])
	}
}

func TestCreateBotLifecycle(t *testing.T) {
	router, _, store, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/bots/create", map[string]string{
		"token":        "123:abc",
		"instructions": "Отвечай как пират.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d body = %v", rec.Code, body)
	}
	if body["success"] != true {
		t.Error("expected success")
	}

	stored, _ := store.GetBot(context.Background(), "123:abc")
	if stored == nil || !stored.IsActive {
		t.Fatalf("bot not persisted active: %+v", stored)
	}
	if stored.Model != "gpt-4o-mini" {
		t.Errorf("default model not applied: %q", stored.Model)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/api/bots/list", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	bots, ok := body["bots"].([]any)
	if !ok || len(bots) != 1 {
		t.Fatalf("expected 1 bot, got %v", body["bots"])
	}
	entry := bots[0].(map[string]any)
	if entry["status"] != "running" {
		t.Errorf("status = %v, want running", entry["status"])
	}
}

func TestCreateBotValidation(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/bots/create", map[string]string{
		"token": "123:abc",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["success"] != false {
		t.Error("expected failure")
	}
}

func TestCreateBotStartFailure(t *testing.T) {
	router, messenger, _, _ := newTestRouter(t)
	messenger.failFor["bad:token"] = true

	rec, _ := doJSON(t, router, http.MethodPost, "/api/bots/create", map[string]string{
		"token":        "bad:token",
		"instructions": "x",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestToggleBot(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/bots/create", map[string]string{
		"token":        "123:abc",
		"instructions": "x",
	})

	rec, body := doJSON(t, router, http.MethodPost, "/api/bots/toggle", map[string]string{"token": "123:abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["isActive"] != false {
		t.Errorf("isActive = %v, want false", body["isActive"])
	}

	rec, body = doJSON(t, router, http.MethodPost, "/api/bots/toggle", map[string]string{"token": "123:abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["isActive"] != true {
		t.Errorf("isActive = %v, want true", body["isActive"])
	}
}

func TestToggleUnknownBot(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/bots/toggle", map[string]string{"token": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStopBotDeletes(t *testing.T) {
	router, _, store, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/bots/create", map[string]string{
		"token":        "123:abc",
		"instructions": "x",
	})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/bots/stop", map[string]string{"token": "123:abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	stored, _ := store.GetBot(context.Background(), "123:abc")
	if stored != nil {
		t.Errorf("row should be deleted, got %+v", stored)
	}
}

func TestChatPlayground(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/chat", map[string]any{
		"message": "как дела?",
		"chatHistory": []map[string]string{
			{"role": "user", "content": "привет"},
			{"role": "assistant", "content": "здравствуй"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %v", rec.Code, body)
	}
	if body["response"] != "hello from model" {
		t.Errorf("response = %v", body["response"])
	}
}

func TestChatRequiresMessage(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/chat", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatGatewayFailure(t *testing.T) {
	router, _, _, ai := newTestRouter(t)
	ai.err = errors.New("gateway down")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/chat", map[string]any{"message": "hi"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["success"] != false {
		t.Error("expected failure body")
	}
}
