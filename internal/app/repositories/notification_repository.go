package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification for a user
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, message)
		VALUES ($1, $2, $3)
		RETURNING id
	`, notification.UserID, notification.Type, notification.Message).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating notification: %w", err)
	}
	return id, nil
}

// GetByUserID retrieves a user's notifications newest-first
func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, type, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notifications, nil
}

// MarkRead marks one of the user's notifications as read. The user_id
// predicate keeps users from touching each other's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// MarkAllRead marks every notification of the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE user_id = $1 AND read = FALSE
	`, userID)
	if err != nil {
		return fmt.Errorf("error marking notifications read: %w", err)
	}
	return nil
}
