package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// BookmarkRepository handles database operations for saved posts
type BookmarkRepository struct {
	db *pgxpool.Pool
}

// NewBookmarkRepository creates a new BookmarkRepository
func NewBookmarkRepository(db *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create saves a post for a user. Saving the same post twice returns
// ErrResourceAlreadyExists.
func (r *BookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO bookmarks (user_id, post_id, community_id, post_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, bookmark.UserID, bookmark.PostID, bookmark.CommunityID, bookmark.PostType).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		return 0, fmt.Errorf("error creating bookmark: %w", err)
	}
	return id, nil
}

// Delete removes one of the user's bookmarks. The user_id predicate
// keeps users from deleting each other's bookmarks.
func (r *BookmarkRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM bookmarks
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting bookmark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// GetByUserID retrieves a user's bookmarks newest-first
func (r *BookmarkRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Bookmark, error) {
	query := `
		SELECT id, user_id, post_id, community_id, post_type, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	bookmarks := []*models.Bookmark{}
	for rows.Next() {
		var b models.Bookmark
		err := rows.Scan(&b.ID, &b.UserID, &b.PostID, &b.CommunityID, &b.PostType, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning bookmark: %w", err)
		}
		bookmarks = append(bookmarks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return bookmarks, nil
}
