package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/askwiki/askwiki/internal/domain"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
}

// ConversationRepository defines turn persistence operations.
type ConversationRepository interface {
	Append(ctx context.Context, turn *domain.ConversationTurn) error
	ListByUser(ctx context.Context, userID string) ([]domain.ConversationTurn, error)
}

// ConversationService manages users and their persisted chat history.
type ConversationService struct {
	users UserRepository
	turns ConversationRepository
	now   func() time.Time
}

func NewConversationService(users UserRepository, turns ConversationRepository) *ConversationService {
	return &ConversationService{
		users: users,
		turns: turns,
		now:   time.Now,
	}
}

// UpsertUser registers a user, overwriting the name if the user exists.
func (s *ConversationService) UpsertUser(ctx context.Context, userID, name string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrMissingUserID
	}

	if err := s.users.Upsert(ctx, &domain.User{UserID: userID, Name: name}); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// AppendTurn records a completed chat turn with a fresh timestamp.
func (s *ConversationService) AppendTurn(ctx context.Context, userID, message string, sources []domain.SourceRef, modelResponse string) error {
	turn := &domain.ConversationTurn{
		UserID:        userID,
		Message:       message,
		Timestamp:     s.now().UTC(),
		Sources:       sources,
		ModelResponse: modelResponse,
	}
	if err := s.turns.Append(ctx, turn); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// History returns all persisted turns for a user in chronological order.
func (s *ConversationService) History(ctx context.Context, userID string) ([]domain.ConversationTurn, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrMissingUserID
	}

	turns, err := s.turns.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation history: %w", err)
	}
	return turns, nil
}
