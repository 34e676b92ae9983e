package repository

import (
	"context"
	"errors"
	"fmt"

	"vkinder-bot/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user profile, an existing profile is left untouched
func (r *UserRepository) Create(ctx context.Context, user *models.UserProfile) error {
	query := `
		INSERT INTO users (id_user, id_city, age, sex)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id_user) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.CityID, user.Age, user.Sex)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user profile by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.UserProfile, error) {
	query := `
		SELECT id_user, id_city, age, sex, created_at
		FROM users
		WHERE id_user = $1
	`
	var user models.UserProfile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.CityID, &user.Age, &user.Sex, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Exists checks if a user is registered
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id_user = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// ListIDs returns the ids of all registered users
func (r *UserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id_user FROM users ORDER BY id_user`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan user ids: %w", err)
	}
	return ids, nil
}
