package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/askwiki/askwiki/internal/api/handlers"
	"github.com/askwiki/askwiki/internal/domain"
	"github.com/askwiki/askwiki/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserService struct{}

func (s *stubUserService) UpsertUser(ctx context.Context, userID, name string) error { return nil }

type stubChatRunner struct{}

func (s *stubChatRunner) Chat(ctx context.Context, userID, text string) (*service.ChatResult, error) {
	return &service.ChatResult{Answer: "ok"}, nil
}

type stubHistoryReader struct{}

func (s *stubHistoryReader) History(ctx context.Context, userID string) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		UserHandler:    handlers.NewUserHandler(&stubUserService{}),
		ChatHandler:    handlers.NewChatHandler(&stubChatRunner{}, &stubHistoryReader{}),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodPost, "/users/", `{"user_id":"u1","name":"Alice"}`, http.StatusOK},
		{http.MethodPost, "/chat/u1", `{"text":"hi"}`, http.StatusOK},
		{http.MethodGet, "/history/u1", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		var req *http.Request
		if tt.body != "" {
			req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		} else {
			req = httptest.NewRequest(tt.method, tt.path, nil)
		}
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouter_SetsRequestID(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_CORSAllowedOrigin(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodOptions, "/chat/u1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSUnknownOrigin(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RejectsOversizedBody(t *testing.T) {
	router := newTestRouter()
	body := strings.Repeat("a", 2*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/chat/u1", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
