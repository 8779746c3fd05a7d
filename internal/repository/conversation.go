package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

// Append stores a completed chat turn. Sources are kept as a JSON document
// so the history endpoint can return them structured.
func (r *ConversationRepository) Append(ctx context.Context, turn *domain.ConversationTurn) error {
	sourceJSON, err := json.Marshal(domain.SourceSet{Articles: turn.Sources})
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO conversations (user_id, message, timestamp, source_json, model_response)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		turn.UserID, turn.Message, turn.Timestamp, sourceJSON, turn.ModelResponse,
	).Scan(&turn.ID)
}

// ListByUser returns a user's turns in chronological order.
func (r *ConversationRepository) ListByUser(ctx context.Context, userID string) ([]domain.ConversationTurn, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, message, timestamp, source_json, model_response
		 FROM conversations
		 WHERE user_id = $1
		 ORDER BY timestamp, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]domain.ConversationTurn, 0)
	for rows.Next() {
		var turn domain.ConversationTurn
		var sourceJSON []byte
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.Message, &turn.Timestamp, &sourceJSON, &turn.ModelResponse); err != nil {
			return nil, err
		}

		var sources domain.SourceSet
		if len(sourceJSON) > 0 {
			if err := json.Unmarshal(sourceJSON, &sources); err != nil {
				return nil, fmt.Errorf("failed to unmarshal sources for turn %d: %w", turn.ID, err)
			}
		}
		turn.Sources = sources.Articles
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
