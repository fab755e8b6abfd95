// Package seed creates default data required for a fresh installation
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	systemUserEmail = "system@campuslink.app"

	defaultCommunityName        = "General"
	defaultCommunityDescription = "Campus-wide announcements and open discussion"
	defaultCommunityCategory    = "General"
)

// CreateDefaultData seeds the system identity and the default community.
// Idempotent: re-running against a seeded database is a no-op.
func CreateDefaultData(ctx context.Context, db *pgxpool.Pool, logger zerolog.Logger) error {
	var systemUserID int64
	err := db.QueryRow(ctx, `
		INSERT INTO users (email, name, profile_complete)
		VALUES ($1, 'CampusLink', TRUE)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, systemUserEmail).Scan(&systemUserID)
	if err != nil {
		return fmt.Errorf("failed to seed system user: %w", err)
	}

	var exists bool
	err = db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM communities WHERE name = $1 AND admin_id = $2)
	`, defaultCommunityName, systemUserID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check default community: %w", err)
	}
	if exists {
		return nil
	}

	var communityID int64
	err = db.QueryRow(ctx, `
		INSERT INTO communities (name, description, category, admin_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, defaultCommunityName, defaultCommunityDescription, defaultCommunityCategory, systemUserID).Scan(&communityID)
	if err != nil {
		return fmt.Errorf("failed to seed default community: %w", err)
	}

	// The admin is a follower from the moment the community exists
	_, err = db.Exec(ctx, `
		INSERT INTO community_followers (community_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, communityID, systemUserID)
	if err != nil {
		return fmt.Errorf("failed to seed default community follower: %w", err)
	}

	logger.Info().
		Int64("communityID", communityID).
		Str("name", defaultCommunityName).
		Msg("Default data created")

	return nil
}
