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
	"github.com/campuslink/campuslink/internal/db"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// GroupRepository handles database operations for groups and their
// member sets
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

func groupSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"g.id", "g.name", "g.description", "g.is_private", "g.admin_id",
		"g.last_message_text", "g.last_message_sender_id", "g.last_message_at",
		"g.created_at", "g.updated_at",
		"COALESCE(ARRAY_AGG(gm.user_id) FILTER (WHERE gm.user_id IS NOT NULL), '{}') AS member_ids",
	).
		From("groups g").
		LeftJoin("group_members gm ON gm.group_id = g.id").
		GroupBy("g.id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.IsPrivate,
		&g.AdminID,
		&g.LastMessageText,
		&g.LastMessageSenderID,
		&g.LastMessageAt,
		&g.CreatedAt,
		&g.UpdatedAt,
		&g.MemberIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error scanning group: %w", err)
	}
	return &g, nil
}

// GetAll retrieves groups newest-first with limit/offset pagination
func (r *GroupRepository) GetAll(ctx context.Context, limit, offset int) ([]*models.Group, error) {
	sql, args, err := groupSelect().
		OrderBy("g.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return groups, nil
}

// GetByID retrieves a group with its member set
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	sql, args, err := groupSelect().Where("g.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanGroup(r.db.QueryRow(ctx, sql, args...))
}

// Create inserts a group and seeds its member set with the admin in one
// transaction
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) (int64, error) {
	var id int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO groups (name, description, is_private, admin_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, group.Name, group.Description, group.IsPrivate, group.AdminID).Scan(&id)
		if err != nil {
			return fmt.Errorf("error creating group: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO group_members (group_id, user_id)
			VALUES ($1, $2)
		`, id, group.AdminID)
		if err != nil {
			return fmt.Errorf("error seeding member set: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// AddMember adds a user to the member set
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("error adding member: %w", err)
	}
	return nil
}

// RemoveMember removes a user from the member set
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("error removing member: %w", err)
	}
	return nil
}

// UpdateLastMessage refreshes the cached last-message summary. Called
// after message creation; a failure leaves a stale summary.
func (r *GroupRepository) UpdateLastMessage(ctx context.Context, groupID int64, text string, senderID int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE groups
		SET last_message_text = $1, last_message_sender_id = $2, last_message_at = $3, updated_at = NOW()
		WHERE id = $4
	`, text, senderID, at, groupID)
	if err != nil {
		return fmt.Errorf("error updating last message: %w", err)
	}
	return nil
}
