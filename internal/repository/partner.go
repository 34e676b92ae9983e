package repository

import (
	"context"
	"fmt"

	"vkinder-bot/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PartnerRepository handles database operations for partners and user verdicts
type PartnerRepository struct {
	db *pgxpool.Pool
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *pgxpool.Pool) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Exists checks if a partner has already been stored
func (r *PartnerRepository) Exists(ctx context.Context, partnerID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM partners WHERE id_partner = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, partnerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check partner existence: %w", err)
	}
	return exists, nil
}

// RelationshipExists checks if the user already rated the partner
func (r *PartnerRepository) RelationshipExists(ctx context.Context, userID, partnerID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users_partners WHERE id_user = $1 AND id_partner = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, partnerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check relationship existence: %w", err)
	}
	return exists, nil
}

// IsIgnored checks if the user rejected the partner
func (r *PartnerRepository) IsIgnored(ctx context.Context, userID, partnerID int64) (bool, error) {
	query := `
		SELECT COALESCE(
			(SELECT ignore FROM users_partners WHERE id_user = $1 AND id_partner = $2),
			FALSE
		)
	`
	var ignored bool
	if err := r.db.QueryRow(ctx, query, userID, partnerID).Scan(&ignored); err != nil {
		return false, fmt.Errorf("failed to check ignore flag: %w", err)
	}
	return ignored, nil
}

// CreateRelationship stores a verdict, a duplicate pair is a no-op
func (r *PartnerRepository) CreateRelationship(ctx context.Context, rel *models.Relationship) error {
	query := `
		INSERT INTO users_partners (id_user, id_partner, ignore)
		VALUES ($1, $2, $3)
		ON CONFLICT (id_user, id_partner) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, rel.UserID, rel.PartnerID, rel.Ignore); err != nil {
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	return nil
}

// CreateWithRelationship stores a new partner together with the first verdict on it
func (r *PartnerRepository) CreateWithRelationship(ctx context.Context, partner *models.Partner, rel *models.Relationship) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO partners (id_partner, first_name, last_name, link)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id_partner) DO NOTHING
		`, partner.ID, partner.FirstName, partner.LastName, partner.Link)
		if err != nil {
			return fmt.Errorf("failed to create partner: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO users_partners (id_user, id_partner, ignore)
			VALUES ($1, $2, $3)
			ON CONFLICT (id_user, id_partner) DO NOTHING
		`, rel.UserID, partner.ID, rel.Ignore)
		if err != nil {
			return fmt.Errorf("failed to create relationship: %w", err)
		}
		return nil
	})
}

// ListFavorites returns partners the user liked, in the order they were liked
func (r *PartnerRepository) ListFavorites(ctx context.Context, userID int64) ([]*models.Partner, error) {
	query := `
		SELECT p.id_partner, p.first_name, p.last_name, p.link
		FROM partners p
		JOIN users_partners up ON up.id_partner = p.id_partner
		WHERE up.id_user = $1 AND up.ignore = FALSE
		ORDER BY up.created_at, p.id_partner
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	defer rows.Close()

	var partners []*models.Partner
	for rows.Next() {
		var partner models.Partner
		if err := rows.Scan(&partner.ID, &partner.FirstName, &partner.LastName, &partner.Link); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, &partner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return partners, nil
}
