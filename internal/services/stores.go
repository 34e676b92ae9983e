package services

import (
	"context"
	"errors"

	"vkinder-bot/internal/models"
)

var (
	// ErrIncompleteProfile means the profile lacks city, age or sex
	ErrIncompleteProfile = errors.New("profile is incomplete")
	// ErrStreamExhausted means the search has no more candidates
	ErrStreamExhausted = errors.New("no more candidates")
	// ErrNoCurrentCandidate means no candidate has been presented yet
	ErrNoCurrentCandidate = errors.New("no current candidate")
	// ErrStopRequested is returned when an admin stops the bot from chat
	ErrStopRequested = errors.New("stop requested")
)

// UserStore persists registered users
type UserStore interface {
	Create(ctx context.Context, user *models.UserProfile) error
	GetByID(ctx context.Context, id int64) (*models.UserProfile, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

// PartnerStore persists partners and the verdicts users gave them
type PartnerStore interface {
	Exists(ctx context.Context, partnerID int64) (bool, error)
	RelationshipExists(ctx context.Context, userID, partnerID int64) (bool, error)
	IsIgnored(ctx context.Context, userID, partnerID int64) (bool, error)
	CreateRelationship(ctx context.Context, rel *models.Relationship) error
	CreateWithRelationship(ctx context.Context, partner *models.Partner, rel *models.Relationship) error
	ListFavorites(ctx context.Context, userID int64) ([]*models.Partner, error)
}

// GenderStore resolves a normalized first name to a sex
type GenderStore interface {
	GetSex(ctx context.Context, name string) (models.Sex, error)
}

// ProfileSource fetches user profiles from the social network
type ProfileSource interface {
	GetProfile(ctx context.Context, userID int64) (*models.RawProfile, error)
}

// CandidateStream is a forward-only cursor over search results.
// Next returns io.EOF once the results are drained.
type CandidateStream interface {
	Next(ctx context.Context) (*models.RawCandidate, error)
	Close()
}

// CandidateSource runs partner searches and fetches their photos
type CandidateSource interface {
	SearchCandidates(ctx context.Context, filter models.SearchFilter) CandidateStream
	GetPhotos(ctx context.Context, ownerID int64) ([]models.Photo, error)
}

// Messenger delivers outbound chat messages
type Messenger interface {
	Send(ctx context.Context, msg *models.OutgoingMessage) error
}
