package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/askwiki/askwiki/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Upsert inserts a user or overwrites the name if the user already exists.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (user_id, name) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name`,
		user.UserID, nullableString(user.Name),
	)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	var name sql.NullString
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, name FROM users WHERE user_id = $1`,
		userID,
	).Scan(&user.UserID, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user.Name = name.String
	return &user, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
