package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/db"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// CommunityRepository handles database operations for communities and
// their follower sets
type CommunityRepository struct {
	db *pgxpool.Pool
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// communitySelect joins the follower set into every fetched row so that
// isFollowing is always derived from the row itself.
func communitySelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"c.id", "c.name", "c.description", "c.category", "c.admin_id",
		"c.post_count", "c.created_at", "c.updated_at",
		"COALESCE(ARRAY_AGG(cf.user_id) FILTER (WHERE cf.user_id IS NOT NULL), '{}') AS follower_ids",
	).
		From("communities c").
		LeftJoin("community_followers cf ON cf.community_id = c.id").
		GroupBy("c.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanCommunity(row pgx.Row) (*models.Community, error) {
	var c models.Community
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Category,
		&c.AdminID,
		&c.PostCount,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.FollowerIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error scanning community: %w", err)
	}
	return &c, nil
}

// GetAll retrieves communities newest-first with an optional category
// filter and limit/offset pagination
func (r *CommunityRepository) GetAll(ctx context.Context, category *string, limit, offset int) ([]*models.Community, error) {
	builder := communitySelect().
		OrderBy("c.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if category != nil && *category != "" {
		builder = builder.Where("c.category = ?", *category)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	communities := []*models.Community{}
	for rows.Next() {
		community, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return communities, nil
}

// GetByID retrieves a community with its follower set
func (r *CommunityRepository) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	sql, args, err := communitySelect().Where("c.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanCommunity(r.db.QueryRow(ctx, sql, args...))
}

// GetFollowedIDs returns the ids of all communities the user follows
func (r *CommunityRepository) GetFollowedIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT community_id FROM community_followers WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning community id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

// Create inserts a community and seeds its follower set with the admin in
// one transaction, so the admin is a follower from the moment the
// community exists.
func (r *CommunityRepository) Create(ctx context.Context, community *models.Community) (int64, error) {
	var id int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO communities (name, description, category, admin_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, community.Name, community.Description, community.Category, community.AdminID).Scan(&id)
		if err != nil {
			return fmt.Errorf("error creating community: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO community_followers (community_id, user_id)
			VALUES ($1, $2)
		`, id, community.AdminID)
		if err != nil {
			return fmt.Errorf("error seeding follower set: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// AddFollower adds a user to the follower set. Adding an existing
// follower is a no-op.
func (r *CommunityRepository) AddFollower(ctx context.Context, communityID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO community_followers (community_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, communityID, userID)
	if err != nil {
		return fmt.Errorf("error adding follower: %w", err)
	}
	return nil
}

// RemoveFollower removes a user from the follower set
func (r *CommunityRepository) RemoveFollower(ctx context.Context, communityID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM community_followers
		WHERE community_id = $1 AND user_id = $2
	`, communityID, userID)
	if err != nil {
		return fmt.Errorf("error removing follower: %w", err)
	}
	return nil
}

// IncrementPostCount bumps the denormalized post counter. Called after
// post creation outside the post's own write; a failure here leaves a
// transient undercount.
func (r *CommunityRepository) IncrementPostCount(ctx context.Context, communityID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE communities SET post_count = post_count + 1, updated_at = NOW()
		WHERE id = $1
	`, communityID)
	if err != nil {
		return fmt.Errorf("error incrementing post count: %w", err)
	}
	return nil
}
