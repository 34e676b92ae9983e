package repository

import (
	"context"
	"errors"
	"fmt"

	"vkinder-bot/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GenderRepository handles the name to sex reference table
type GenderRepository struct {
	db *pgxpool.Pool
}

// NewGenderRepository creates a new gender repository
func NewGenderRepository(db *pgxpool.Pool) *GenderRepository {
	return &GenderRepository{db: db}
}

// GetSex looks up a normalized first name, unknown names yield SexUnknown
func (r *GenderRepository) GetSex(ctx context.Context, name string) (models.Sex, error) {
	var sex models.Sex
	err := r.db.QueryRow(ctx, `SELECT sex FROM genders WHERE name = $1`, name).Scan(&sex)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SexUnknown, nil
		}
		return models.SexUnknown, fmt.Errorf("failed to get gender: %w", err)
	}
	return sex, nil
}

// Seed inserts names in one batch and returns how many were new
func (r *GenderRepository) Seed(ctx context.Context, names []models.GenderName) (int64, error) {
	batch := &pgx.Batch{}
	for _, n := range names {
		batch.Queue(`INSERT INTO genders (name, sex) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`, n.Name, n.Sex)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range names {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to seed genders: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}
