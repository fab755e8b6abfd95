package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// UserRepository handles database operations for user profiles
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, reg_no, department, year, photo_url, profile_complete, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.RegNo,
		&u.Department,
		&u.Year,
		&u.PhotoURL,
		&u.ProfileComplete,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}

// FindByID retrieves a user by id
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// Create inserts a bare identity for an email. The profile is completed
// later through the profile endpoint.
func (r *UserRepository) Create(ctx context.Context, email string) (*models.User, error) {
	query := `
		INSERT INTO users (email)
		VALUES ($1)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Concurrent create for the same email: fall back to lookup
			return r.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// UpdateProfile updates the owner-editable profile fields and marks the
// profile complete
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, reg_no = $2, department = $3, year = $4, photo_url = $5,
		    profile_complete = TRUE, updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		user.Name, user.RegNo, user.Department, user.Year, user.PhotoURL, user.ID)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
