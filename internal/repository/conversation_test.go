//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/askwiki/askwiki/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewConversationRepository(pool)

	turn := &domain.ConversationTurn{
		UserID:    "u1",
		Message:   "What is the capital of France?",
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
		Sources: []domain.SourceRef{
			{Title: "Paris", URL: "https://en.wikipedia.org/wiki/Paris"},
		},
		ModelResponse: "The capital of France is Paris.",
	}

	err := repo.Append(ctx, turn)
	require.NoError(t, err)
	assert.NotZero(t, turn.ID)

	turns, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, turn.Message, turns[0].Message)
	assert.Equal(t, turn.ModelResponse, turns[0].ModelResponse)
	assert.True(t, turn.Timestamp.Equal(turns[0].Timestamp))
	require.Len(t, turns[0].Sources, 1)
	assert.Equal(t, "Paris", turns[0].Sources[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Paris", turns[0].Sources[0].URL)
}

func TestConversationRepository_ListByUser_ChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewConversationRepository(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, msg := range []string{"first", "second", "third"} {
		err := repo.Append(ctx, &domain.ConversationTurn{
			UserID:        "u1",
			Message:       msg,
			Timestamp:     base.Add(time.Duration(i) * time.Second),
			ModelResponse: "ok",
		})
		require.NoError(t, err)
	}

	turns, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "first", turns[0].Message)
	assert.Equal(t, "second", turns[1].Message)
	assert.Equal(t, "third", turns[2].Message)
}

func TestConversationRepository_ListByUser_IsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewConversationRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Append(ctx, &domain.ConversationTurn{UserID: "alice", Message: "hi", Timestamp: now, ModelResponse: "a"}))
	require.NoError(t, repo.Append(ctx, &domain.ConversationTurn{UserID: "bob", Message: "yo", Timestamp: now, ModelResponse: "b"}))

	turns, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "hi", turns[0].Message)
}

func TestConversationRepository_ListByUser_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewConversationRepository(pool)

	turns, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestConversationRepository_Append_NoSources(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewConversationRepository(pool)

	err := repo.Append(ctx, &domain.ConversationTurn{
		UserID:        "u1",
		Message:       "hello",
		Timestamp:     time.Now().UTC().Truncate(time.Microsecond),
		ModelResponse: "hi",
	})
	require.NoError(t, err)

	turns, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Empty(t, turns[0].Sources)
}
