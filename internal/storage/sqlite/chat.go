package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

type chatRow struct {
	ID        int64  `db:"id"`
	GroupID   int64  `db:"group_id"`
	UserID    int64  `db:"user_id"`
	Username  string `db:"username"`
	Body      string `db:"body"`
	CreatedAt int64  `db:"created_at"`
}

// CreateChatMessage stores a chat message.
func (s *SQLiteStore) CreateChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (group_id, user_id, body, created_at) VALUES (?, ?, ?, ?)`,
		msg.GroupID, msg.UserID, msg.Body, toMillis(msg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read chat message id: %w", err)
	}
	msg.ID = id
	return nil
}

// ListChatMessages returns the latest limit messages of a group in chronological order.
func (s *SQLiteStore) ListChatMessages(ctx context.Context, groupID int64, limit int) ([]*models.ChatMessage, error) {
	var rows []chatRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM (
			SELECT c.id, c.group_id, c.user_id, u.username, c.body, c.created_at
			FROM chat_messages c JOIN users u ON u.id = c.user_id
			WHERE c.group_id = ?
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT ?
		) ORDER BY created_at ASC, id ASC`,
		groupID, limit,
	); err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	messages := make([]*models.ChatMessage, len(rows))
	for i, r := range rows {
		messages[i] = &models.ChatMessage{
			ID:        r.ID,
			GroupID:   r.GroupID,
			UserID:    r.UserID,
			Username:  r.Username,
			Body:      r.Body,
			CreatedAt: fromMillis(r.CreatedAt),
		}
	}
	return messages, nil
}
