package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/askwiki/askwiki/internal/telemetry"
)

const groundingPrompt = "You are a knowledgeable assistant focused on providing accurate Wikipedia-based information. " +
	"Use the provided context to answer questions concisely and precisely. However, don't mention about the context itself. " +
	"If the context only partially addresses the question, share what you can confidently say based on it. " +
	"If the context is insufficient, clearly state which parts you cannot address. " +
	"Aim to be helpful while staying grounded in the provided sources - do not make assumptions or add external information. " +
	"Keep responses focused and brief, ideally within 3-5 sentences."

// LLMClient defines the two completion modes a chat turn uses.
type LLMClient interface {
	// Decide runs a completion with the retrieve tool bound.
	Decide(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error)
	// Generate runs a completion with no tools bound.
	Generate(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error)
}

// RetrieverTool answers retrieve tool calls with serialized chunk content.
type RetrieverTool interface {
	Retrieve(ctx context.Context, query string) (string, []domain.Chunk, error)
}

// ArticleSource resolves a user message into Wikipedia article content.
type ArticleSource interface {
	FetchArticles(ctx context.Context, query string) (map[string]string, []domain.SourceRef)
}

// ContentIndexer embeds article content into the vector index.
type ContentIndexer interface {
	Index(ctx context.Context, contentBySource map[string]string) error
}

// TurnRecorder persists completed chat turns.
type TurnRecorder interface {
	AppendTurn(ctx context.Context, userID, message string, sources []domain.SourceRef, modelResponse string) error
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Answer  string
	Sources []domain.SourceRef
}

// ChatService drives a chat turn end to end: fetch and index articles for
// the message, run the model with the retrieve tool, and record the turn.
// Each user gets an independent in-memory message thread.
type ChatService struct {
	llm       LLMClient
	fetcher   ArticleSource
	indexer   ContentIndexer
	retriever RetrieverTool
	recorder  TurnRecorder

	mu      sync.Mutex
	threads map[string][]domain.ChatMessage
}

func NewChatService(llm LLMClient, fetcher ArticleSource, indexer ContentIndexer, retriever RetrieverTool, recorder TurnRecorder) *ChatService {
	return &ChatService{
		llm:       llm,
		fetcher:   fetcher,
		indexer:   indexer,
		retriever: retriever,
		recorder:  recorder,
		threads:   make(map[string][]domain.ChatMessage),
	}
}

// Chat runs one turn for the given user and returns the answer plus the
// articles fetched for it.
func (s *ChatService) Chat(ctx context.Context, userID, text string) (*ChatResult, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	if text == "" {
		return nil, domain.ErrMissingMessage
	}

	ctx, span := telemetry.StartSpan(ctx, "ChatService.Chat", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "chat",
	})
	defer span.End()

	content, sources := s.fetcher.FetchArticles(ctx, text)
	if len(content) > 0 {
		if err := s.indexer.Index(ctx, content); err != nil {
			return nil, fmt.Errorf("failed to index articles: %w", err)
		}
	}

	thread := s.threadSnapshot(userID)
	thread = append(thread, domain.ChatMessage{Role: domain.RoleUser, Content: text})

	thread, answer, err := s.runTurn(ctx, thread)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	s.storeThread(userID, thread)

	if err := s.recorder.AppendTurn(ctx, userID, text, sources, answer); err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}

	return &ChatResult{Answer: answer, Sources: sources}, nil
}

// runTurn executes the decide/retrieve/generate loop over the thread. The
// model gets at most one retrieval round-trip per turn.
func (s *ChatService) runTurn(ctx context.Context, thread []domain.ChatMessage) ([]domain.ChatMessage, string, error) {
	decision, err := s.llm.Decide(ctx, thread)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	thread = append(thread, decision)

	if !decision.HasToolCalls() {
		return thread, decision.Content, nil
	}

	for _, call := range decision.ToolCalls {
		result, _, err := s.executeRetrieve(ctx, call)
		if err != nil {
			return nil, "", err
		}
		thread = append(thread, domain.ChatMessage{
			Role:       domain.RoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})
	}

	answer, err := s.generate(ctx, thread)
	if err != nil {
		return nil, "", err
	}
	thread = append(thread, domain.ChatMessage{Role: domain.RoleAssistant, Content: answer})
	return thread, answer, nil
}

func (s *ChatService) executeRetrieve(ctx context.Context, call domain.ToolCall) (string, []domain.Chunk, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		log.Printf("malformed retrieve arguments %q: %v", call.Arguments, err)
	}

	serialized, chunks, err := s.retriever.Retrieve(ctx, args.Query)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}
	return serialized, chunks, nil
}

// generate folds the trailing tool results into a grounding system message
// and reruns the model over the tool-free view of the thread.
func (s *ChatService) generate(ctx context.Context, thread []domain.ChatMessage) (string, error) {
	var recent []domain.ChatMessage
	for i := len(thread) - 1; i >= 0; i-- {
		if thread[i].Role != domain.RoleTool {
			break
		}
		recent = append(recent, thread[i])
	}

	docs := ""
	for i := len(recent) - 1; i >= 0; i-- {
		if docs != "" {
			docs += "\n\n"
		}
		docs += recent[i].Content
	}

	prompt := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: groundingPrompt + "\n\n" + docs},
	}
	for _, m := range thread {
		switch m.Role {
		case domain.RoleUser, domain.RoleSystem:
			prompt = append(prompt, m)
		case domain.RoleAssistant:
			if !m.HasToolCalls() {
				prompt = append(prompt, m)
			}
		}
	}

	response, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return response.Content, nil
}

func (s *ChatService) threadSnapshot(userID string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.threads[userID]
	thread := make([]domain.ChatMessage, len(stored))
	copy(thread, stored)
	return thread
}

func (s *ChatService) storeThread(userID string, thread []domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[userID] = thread
}
