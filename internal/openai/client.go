package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/askwiki/askwiki/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the OpenAI model used for chat completions
	DefaultChatModel = openai.GPT4oMini
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536

	// RetrieveToolName is the single tool exposed to the model during the
	// decide phase of a chat turn.
	RetrieveToolName = "retrieve"
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
	// ErrNoChoices is returned when a chat completion has no choices
	ErrNoChoices = errors.New("no chat completion choices returned")
)

var retrieveToolParameters = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "The search query to retrieve indexed article content for"
		}
	},
	"required": ["query"]
}`)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// ChatAPI defines the interface for chat completions
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps the OpenAI API for embeddings and tool-aware chat
type Client struct {
	api        EmbeddingAPI
	chat       ChatAPI
	chatModel  string
	dimensions int
}

type OpenAIAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIAdapter(apiKey string, model openai.EmbeddingModel) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// CreateChatCompletion forwards to the OpenAI chat completions API
func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return a.client.CreateChatCompletion(ctx, req)
}

type Config struct {
	APIKey              string
	ChatModel           string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	adapter := NewOpenAIAdapter(cfg.APIKey, cfg.EmbeddingModel)
	return &Client{
		api:        adapter,
		chat:       adapter,
		chatModel:  chatModel,
		dimensions: dimensions,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	expected := c.dimensions
	if expected <= 0 {
		expected = DefaultEmbeddingDimensions
	}
	if len(embedding) != expected {
		return nil, ErrWrongDimensions
	}

	return embedding, nil
}

// Decide runs one completion with the retrieve tool bound. The model either
// answers directly or requests a retrieval.
func (c *Client) Decide(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: toAPIMessages(messages),
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        RetrieveToolName,
					Description: "Retrieve indexed Wikipedia content related to a query.",
					Parameters:  retrieveToolParameters,
				},
			},
		},
	}
	return c.complete(ctx, req)
}

// Generate runs one completion with no tools bound.
func (c *Client) Generate(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: toAPIMessages(messages),
	}
	return c.complete(ctx, req)
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (domain.ChatMessage, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ChatMessage{}, ErrNoChoices
	}
	return fromAPIMessage(resp.Choices[0].Message), nil
}

func toAPIMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		apiMsg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, call := range m.ToolCalls {
			apiMsg.ToolCalls = append(apiMsg.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		out = append(out, apiMsg)
	}
	return out
}

func fromAPIMessage(msg openai.ChatCompletionMessage) domain.ChatMessage {
	out := domain.ChatMessage{
		Role:       msg.Role,
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
	}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}
