package services

import (
	"context"
	"fmt"

	"vkinder-bot/internal/models"
)

// FavoritesService stores verdicts and lists liked partners
type FavoritesService struct {
	partners      PartnerStore
	profileDomain string
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(partners PartnerStore, profileDomain string) *FavoritesService {
	return &FavoritesService{
		partners:      partners,
		profileDomain: profileDomain,
	}
}

// ProfileLink returns the public profile URL of a user
func (s *FavoritesService) ProfileLink(id int64) string {
	return fmt.Sprintf("https://%s/id%d", s.profileDomain, id)
}

// SaveVerdict records a like (ignore=false) or dislike (ignore=true).
// The first verdict on a pair wins, later ones are no-ops.
func (s *FavoritesService) SaveVerdict(ctx context.Context, userID int64, candidate *models.Candidate, ignore bool) error {
	rel := &models.Relationship{
		UserID:    userID,
		PartnerID: candidate.ID,
		Ignore:    ignore,
	}

	exists, err := s.partners.Exists(ctx, candidate.ID)
	if err != nil {
		return fmt.Errorf("failed to save verdict: %w", err)
	}

	if !exists {
		partner := &models.Partner{
			ID:        candidate.ID,
			FirstName: candidate.FirstName,
			LastName:  candidate.LastName,
			Link:      s.ProfileLink(candidate.ID),
		}
		if err := s.partners.CreateWithRelationship(ctx, partner, rel); err != nil {
			return fmt.Errorf("failed to save verdict: %w", err)
		}
		countVerdict(ignore)
		return nil
	}

	rated, err := s.partners.RelationshipExists(ctx, userID, candidate.ID)
	if err != nil {
		return fmt.Errorf("failed to save verdict: %w", err)
	}
	if rated {
		return nil
	}

	if err := s.partners.CreateRelationship(ctx, rel); err != nil {
		return fmt.Errorf("failed to save verdict: %w", err)
	}
	countVerdict(ignore)
	return nil
}

// List returns the partners the user liked
func (s *FavoritesService) List(ctx context.Context, userID int64) ([]*models.Partner, error) {
	partners, err := s.partners.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return partners, nil
}

func countVerdict(ignore bool) {
	if ignore {
		verdictsStored.WithLabelValues("dislike").Inc()
		return
	}
	verdictsStored.WithLabelValues("like").Inc()
}
