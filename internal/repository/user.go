package repository

import (
	"context"
	"fmt"

	"supportchat-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindOrCreate returns the existing record for userID or inserts a new
// one. Concurrent calls for the same new userID yield a single row.
func (r *UserRepository) FindOrCreate(ctx context.Context, userID, displayName, role string) (*model.UserRecord, error) {
	if displayName == "" {
		displayName = defaultDisplayName(userID)
	}
	if role == "" {
		role = model.RoleUser
	}

	u := &model.UserRecord{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, display_name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id, display_name, role, created_at, last_seen_at
	`, userID, displayName, role).Scan(&u.UserID, &u.DisplayName, &u.Role, &u.CreatedAt, &u.LastSeenAt)
	if err == nil {
		return u, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// Conflict: the row already exists, load it.
	err = r.pool.QueryRow(ctx, `
		SELECT user_id, display_name, role, created_at, last_seen_at
		FROM users WHERE user_id = $1
	`, userID).Scan(&u.UserID, &u.DisplayName, &u.Role, &u.CreatedAt, &u.LastSeenAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// TouchLastSeen stamps the user's last_seen_at with the current time.
func (r *UserRepository) TouchLastSeen(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_seen_at = NOW() WHERE user_id = $1`, userID)
	return err
}

func defaultDisplayName(userID string) string {
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("User_%s", short)
}
