package repository

import (
	"context"

	"supportchat-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Insert appends a message and returns the stored row with its assigned
// id and timestamp.
func (r *MessageRepository) Insert(ctx context.Context, senderID, senderName, senderRole, text string, recipientID *string) (*model.ChatMessage, error) {
	m := &model.ChatMessage{
		SenderID:    senderID,
		SenderName:  senderName,
		SenderRole:  senderRole,
		Text:        text,
		RecipientID: recipientID,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, sender_name, sender_role, text, recipient_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, senderID, senderName, senderRole, text, recipientID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListForParticipant returns messages where the user is sender or
// recipient, oldest first. The newest rows win when the limit truncates.
func (r *MessageRepository) ListForParticipant(ctx context.Context, userID string, limit, offset int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sender_id, sender_name, sender_role, text, recipient_id, created_at
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessagesReversed(rows)
}

// ListAll returns the newest rows across all conversations, oldest first.
func (r *MessageRepository) ListAll(ctx context.Context, limit, offset int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sender_id, sender_name, sender_role, text, recipient_id, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessagesReversed(rows)
}

// ListConversation returns the exchange between two users, including
// messages either of them addressed to the support pool, oldest first.
func (r *MessageRepository) ListConversation(ctx context.Context, userID1, userID2 string) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sender_id, sender_name, sender_role, text, recipient_id, created_at
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		   OR (sender_id IN ($1, $2) AND recipient_id IS NULL)
		ORDER BY created_at ASC, id ASC
	`, userID1, userID2)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.SenderRole, &m.Text, &m.RecipientID, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *MessageRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

// DeleteOlderThan removes messages older than the given number of days.
// Returns the number of deleted rows.
func (r *MessageRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM messages WHERE created_at < NOW() - make_interval(days => $1)
	`, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// scanMessagesReversed collects rows selected newest-first and flips them
// into chronological order.
func scanMessagesReversed(rows pgx.Rows) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.SenderRole, &m.Text, &m.RecipientID, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
