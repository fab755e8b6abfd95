package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
)

// MessageRepository handles database operations for group chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message into a group's history
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (group_id, sender_id, message_type, text, file_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, message.GroupID, message.SenderID, message.MessageType, message.Text, message.FileURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating message: %w", err)
	}
	return id, nil
}

// GetByGroupID retrieves a group's messages newest-first with their
// sender names
func (r *MessageRepository) GetByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.group_id, m.sender_id, m.message_type, m.text, m.file_url, m.created_at,
		       u.id, u.name
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.group_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var m models.Message
		var sender models.User
		err := rows.Scan(&m.ID, &m.GroupID, &m.SenderID, &m.MessageType, &m.Text, &m.FileURL, &m.CreatedAt, &sender.ID, &sender.Name)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		m.Sender = &sender
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return messages, nil
}
