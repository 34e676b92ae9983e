package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode"

	"vkinder-bot/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DiscoveryOptions holds partner search parameters
type DiscoveryOptions struct {
	AgeSpread     int
	SearchStatus  int
	TopPhotos     int
	SkipFavorites bool
}

// DiscoveryService walks a user through a filtered stream of candidates.
// Callers must hold SessionStore.Lock for the user.
type DiscoveryService struct {
	source   CandidateSource
	users    UserStore
	partners PartnerStore
	sessions *SessionStore
	opts     DiscoveryOptions
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(
	source CandidateSource,
	users UserStore,
	partners PartnerStore,
	sessions *SessionStore,
	opts DiscoveryOptions,
) *DiscoveryService {
	if opts.TopPhotos <= 0 {
		opts.TopPhotos = 3
	}
	return &DiscoveryService{
		source:   source,
		users:    users,
		partners: partners,
		sessions: sessions,
		opts:     opts,
	}
}

// SearchFilter builds the search parameters for a user
func (s *DiscoveryService) SearchFilter(profile *models.UserProfile) models.SearchFilter {
	return models.SearchFilter{
		Sex:      profile.Sex.Opposite(),
		CityID:   profile.CityID,
		AgeFrom:  profile.Age - s.opts.AgeSpread,
		AgeTo:    profile.Age + s.opts.AgeSpread,
		Status:   s.opts.SearchStatus,
		HasPhoto: true,
	}
}

// StartSearch replaces the user's candidate stream with a fresh search
func (s *DiscoveryService) StartSearch(ctx context.Context, profile *models.UserProfile) {
	session := s.sessions.Get(profile.ID)
	if session.Stream != nil {
		session.Stream.Close()
	}

	filter := s.SearchFilter(profile)
	session.SearchID = uuid.New()
	session.Stream = s.source.SearchCandidates(ctx, filter)
	session.Current = nil

	searchesStarted.Inc()
	log.Info().
		Int64("user_id", profile.ID).
		Str("search_id", session.SearchID.String()).
		Int("city_id", filter.CityID).
		Int("age_from", filter.AgeFrom).
		Int("age_to", filter.AgeTo).
		Str("sex", filter.Sex.String()).
		Msg("Search started")
}

// Advance moves the user to the next candidate that passes the filters
// and loads its top photos. It returns ErrStreamExhausted when the search is drained.
func (s *DiscoveryService) Advance(ctx context.Context, userID int64) (*models.Candidate, error) {
	session := s.sessions.Get(userID)
	if session.Stream == nil {
		// session was lost on restart, rebuild it from the stored profile
		profile, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore search: %w", err)
		}
		s.StartSearch(ctx, profile)
	}

	for {
		raw, err := session.Stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrStreamExhausted
			}
			return nil, fmt.Errorf("failed to get next candidate: %w", err)
		}

		ok, err := s.accept(ctx, userID, raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		photos, err := s.TopPhotos(ctx, raw.ID)
		if err != nil {
			return nil, err
		}

		session.Current = &models.Candidate{
			ID:        raw.ID,
			FirstName: raw.FirstName,
			LastName:  raw.LastName,
			PhotoIDs:  photos,
		}

		log.Debug().
			Int64("user_id", userID).
			Str("search_id", session.SearchID.String()).
			Int64("candidate_id", raw.ID).
			Msg("Candidate selected")

		return session.Current, nil
	}
}

// accept applies the name and verdict filters to a raw candidate
func (s *DiscoveryService) accept(ctx context.Context, userID int64, raw *models.RawCandidate) (bool, error) {
	if !IsAlpha(raw.FirstName) || !IsAlpha(raw.LastName) {
		candidatesSkipped.WithLabelValues("invalid_name").Inc()
		return false, nil
	}

	ignored, err := s.partners.IsIgnored(ctx, userID, raw.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check candidate: %w", err)
	}
	if ignored {
		candidatesSkipped.WithLabelValues("ignored").Inc()
		return false, nil
	}

	if s.opts.SkipFavorites {
		rated, err := s.partners.RelationshipExists(ctx, userID, raw.ID)
		if err != nil {
			return false, fmt.Errorf("failed to check candidate: %w", err)
		}
		if rated {
			candidatesSkipped.WithLabelValues("favorite").Inc()
			return false, nil
		}
	}

	return true, nil
}

// TopPhotos returns ids of the most liked profile photos ordered by ascending likes
func (s *DiscoveryService) TopPhotos(ctx context.Context, candidateID int64) ([]int64, error) {
	photos, err := s.source.GetPhotos(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}

	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].Likes < photos[j].Likes
	})
	if len(photos) > s.opts.TopPhotos {
		photos = photos[len(photos)-s.opts.TopPhotos:]
	}

	ids := make([]int64, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// Current returns the candidate presented to the user
func (s *DiscoveryService) Current(userID int64) (*models.Candidate, error) {
	session := s.sessions.Get(userID)
	if session.Current == nil {
		return nil, ErrNoCurrentCandidate
	}
	return session.Current, nil
}

// IsAlpha reports whether s is non-empty and consists of letters only
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
