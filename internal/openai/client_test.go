package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/askwiki/askwiki/internal/domain"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func newTestClient(api EmbeddingAPI, chat ChatAPI) *Client {
	return &Client{
		api:        api,
		chat:       chat,
		chatModel:  DefaultChatModel,
		dimensions: 3,
	}
}

func TestGenerateEmbedding_Success(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, nil)

	mockAPI.On("CreateEmbeddings", mock.Anything, "hello").Return([]float32{0.1, 0.2, 0.3}, nil)

	embedding, err := client.GenerateEmbedding(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
	mockAPI.AssertExpectations(t)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	client := newTestClient(new(MockEmbeddingAPI), nil)

	_, err := client.GenerateEmbedding(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestGenerateEmbedding_WrongDimensions(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, nil)

	mockAPI.On("CreateEmbeddings", mock.Anything, "hello").Return([]float32{0.1}, nil)

	_, err := client.GenerateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbedding_APIError(t *testing.T) {
	mockAPI := new(MockEmbeddingAPI)
	client := newTestClient(mockAPI, nil)

	mockAPI.On("CreateEmbeddings", mock.Anything, "hello").Return(nil, errors.New("rate limited"))

	_, err := client.GenerateEmbedding(context.Background(), "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDecide_BindsRetrieveTool(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := newTestClient(nil, mockChat)

	mockChat.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return len(req.Tools) == 1 && req.Tools[0].Function.Name == RetrieveToolName
	})).Return(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "Paris."}},
		},
	}, nil)

	msg, err := client.Decide(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "What is the capital of France?"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, "Paris.", msg.Content)
	assert.False(t, msg.HasToolCalls())
	mockChat.AssertExpectations(t)
}

func TestDecide_ReturnsToolCalls(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := newTestClient(nil, mockChat)

	mockChat.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{
					{
						ID:       "call-1",
						Type:     openai.ToolTypeFunction,
						Function: openai.FunctionCall{Name: RetrieveToolName, Arguments: `{"query":"capital of France"}`},
					},
				},
			}},
		},
	}, nil)

	msg, err := client.Decide(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "What is the capital of France?"},
	})
	require.NoError(t, err)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "call-1", msg.ToolCalls[0].ID)
	assert.Equal(t, RetrieveToolName, msg.ToolCalls[0].Name)
	assert.Equal(t, `{"query":"capital of France"}`, msg.ToolCalls[0].Arguments)
}

func TestGenerate_NoToolsBound(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := newTestClient(nil, mockChat)

	mockChat.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return len(req.Tools) == 0
	})).Return(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "Grounded answer."}},
		},
	}, nil)

	msg, err := client.Generate(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "context"},
		{Role: domain.RoleUser, Content: "question"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grounded answer.", msg.Content)
	mockChat.AssertExpectations(t)
}

func TestGenerate_NoChoices(t *testing.T) {
	mockChat := new(MockChatAPI)
	client := newTestClient(nil, mockChat)

	mockChat.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, nil)

	_, err := client.Generate(context.Background(), []domain.ChatMessage{{Role: domain.RoleUser, Content: "q"}})
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestToAPIMessages_ToolRoundTrip(t *testing.T) {
	msgs := []domain.ChatMessage{
		{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{{ID: "call-1", Name: RetrieveToolName, Arguments: `{"query":"x"}`}}},
		{Role: domain.RoleTool, Content: "result", ToolCallID: "call-1"},
	}

	apiMsgs := toAPIMessages(msgs)
	require.Len(t, apiMsgs, 2)
	require.Len(t, apiMsgs[0].ToolCalls, 1)
	assert.Equal(t, "call-1", apiMsgs[0].ToolCalls[0].ID)
	assert.Equal(t, openai.ToolTypeFunction, apiMsgs[0].ToolCalls[0].Type)
	assert.Equal(t, "call-1", apiMsgs[1].ToolCallID)
	assert.Equal(t, "result", apiMsgs[1].Content)
}
