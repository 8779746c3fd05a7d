package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/askwiki/askwiki/internal/api"
	"github.com/askwiki/askwiki/internal/domain"
	"github.com/askwiki/askwiki/internal/service"
	"github.com/go-chi/chi/v5"
)

// ChatRunner runs one chat turn for a user.
type ChatRunner interface {
	Chat(ctx context.Context, userID, text string) (*service.ChatResult, error)
}

// HistoryReader lists a user's persisted conversation turns.
type HistoryReader interface {
	History(ctx context.Context, userID string) ([]domain.ConversationTurn, error)
}

// ChatHandler handles chat and history requests.
type ChatHandler struct {
	chat    ChatRunner
	history HistoryReader
}

func NewChatHandler(chat ChatRunner, history HistoryReader) *ChatHandler {
	return &ChatHandler{chat: chat, history: history}
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Message       string `json:"message"`
	Source        string `json:"source"`
	ModelResponse string `json:"model_response"`
}

type historyEntry struct {
	Message       string           `json:"message"`
	Timestamp     string           `json:"timestamp"`
	Source        domain.SourceSet `json:"source"`
	ModelResponse string           `json:"model_response"`
}

type historyResponse struct {
	Messages []historyEntry `json:"messages"`
}

// Chat answers a user message with Wikipedia-grounded content.
// POST /chat/{user_id}
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.chat.Chat(r.Context(), userID, req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, chatResponse{
		Message:       req.Text,
		Source:        domain.JoinSources(result.Sources),
		ModelResponse: result.Answer,
	})
}

// History returns a user's conversation history in chronological order.
// GET /history/{user_id}
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	turns, err := h.history.History(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	entries := make([]historyEntry, 0, len(turns))
	for _, turn := range turns {
		sources := turn.Sources
		if sources == nil {
			sources = []domain.SourceRef{}
		}
		entries = append(entries, historyEntry{
			Message:       turn.Message,
			Timestamp:     turn.Timestamp.Format(time.RFC3339),
			Source:        domain.SourceSet{Articles: sources},
			ModelResponse: turn.ModelResponse,
		})
	}

	api.JSON(w, http.StatusOK, historyResponse{Messages: entries})
}
