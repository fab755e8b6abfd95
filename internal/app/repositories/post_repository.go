package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// PostRepository handles database operations for posts, their like sets
// and comments
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// postSelect joins the like set and community name into every fetched row
// so isLiked and the trending rank derive from the row itself.
func postSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"p.id", "p.community_id", "c.name AS community_name", "p.author_id",
		"p.text", "p.images", "p.comment_count", "p.created_at",
		"COALESCE(ARRAY_AGG(pl.user_id) FILTER (WHERE pl.user_id IS NOT NULL), '{}') AS like_ids",
	).
		From("posts p").
		Join("communities c ON c.id = p.community_id").
		LeftJoin("post_likes pl ON pl.post_id = p.id").
		GroupBy("p.id", "c.name").
		PlaceholderFormat(squirrel.Dollar)
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID,
		&p.CommunityID,
		&p.CommunityName,
		&p.AuthorID,
		&p.Text,
		&p.Images,
		&p.CommentCount,
		&p.CreatedAt,
		&p.LikeIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error scanning post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) queryPosts(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Post, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}

// GetByID retrieves a post with its like set
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	sql, args, err := postSelect().Where("p.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanPost(r.db.QueryRow(ctx, sql, args...))
}

// GetByCommunityID retrieves a community's posts newest-first, bounded by
// limit and optionally restricted to posts newer than `since`.
func (r *PostRepository) GetByCommunityID(ctx context.Context, communityID int64, since *time.Time, limit, offset int) ([]*models.Post, error) {
	builder := postSelect().
		Where("p.community_id = ?", communityID).
		OrderBy("p.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if since != nil {
		builder = builder.Where("p.created_at >= ?", *since)
	}

	return r.queryPosts(ctx, builder)
}

// GetAll retrieves every post in every community newest-first, optionally
// restricted to posts newer than `since`. This is a deliberate full scan;
// the feed, trending and search paths merge and rank in memory.
func (r *PostRepository) GetAll(ctx context.Context, since *time.Time) ([]*models.Post, error) {
	builder := postSelect().OrderBy("p.created_at DESC")

	if since != nil {
		builder = builder.Where("p.created_at >= ?", *since)
	}

	return r.queryPosts(ctx, builder)
}

// Create inserts a post. The parent community's post counter is bumped
// separately by the service.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO posts (community_id, author_id, text, images)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, post.CommunityID, post.AuthorID, post.Text, post.Images).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}
	return id, nil
}

// AddLike adds a user to the like set. Liking twice is a no-op.
func (r *PostRepository) AddLike(ctx context.Context, postID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("error adding like: %w", err)
	}
	return nil
}

// RemoveLike removes a user from the like set
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM post_likes
		WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("error removing like: %w", err)
	}
	return nil
}

// IncrementCommentCount bumps the denormalized comment counter. Called
// after comment creation; a failure leaves a transient undercount.
func (r *PostRepository) IncrementCommentCount(ctx context.Context, postID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE posts SET comment_count = comment_count + 1
		WHERE id = $1
	`, postID)
	if err != nil {
		return fmt.Errorf("error incrementing comment count: %w", err)
	}
	return nil
}

// CreateComment inserts a comment under a post
func (r *PostRepository) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id
	`, comment.PostID, comment.AuthorID, comment.Text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating comment: %w", err)
	}
	return id, nil
}

// GetCommentsByPostID retrieves a post's comments newest-first with their
// author names
func (r *PostRepository) GetCommentsByPostID(ctx context.Context, postID int64, limit, offset int) ([]*models.Comment, error) {
	query := `
		SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at,
		       u.id, u.name
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		var author models.User
		err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt, &author.ID, &author.Name)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		c.Author = &author
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return comments, nil
}
