package models

import "time"

// Sex follows the social network encoding: 0 unspecified, 1 female, 2 male.
type Sex int16

const (
	SexUnknown Sex = 0
	SexFemale  Sex = 1
	SexMale    Sex = 2
)

// Opposite returns the sex a user is searching for
func (s Sex) Opposite() Sex {
	switch s {
	case SexFemale:
		return SexMale
	case SexMale:
		return SexFemale
	default:
		return SexUnknown
	}
}

// Valid reports whether the value is female or male
func (s Sex) Valid() bool {
	return s == SexFemale || s == SexMale
}

func (s Sex) String() string {
	switch s {
	case SexFemale:
		return "female"
	case SexMale:
		return "male"
	default:
		return "unknown"
	}
}

// UserProfile represents a registered bot user
type UserProfile struct {
	ID        int64     `json:"id"`
	CityID    int       `json:"city_id"`
	Age       int       `json:"age"`
	Sex       Sex       `json:"sex"`
	CreatedAt time.Time `json:"created_at"`
}

// RawProfile is the profile as returned by the social network, fields may be missing
type RawProfile struct {
	ID        int64
	FirstName string
	LastName  string
	CityID    *int
	BirthDate string
	Sex       Sex
}

// Partner represents a candidate that was rated by at least one user
type Partner struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Link      string `json:"link"`
}

// Relationship is a user's verdict on a partner
type Relationship struct {
	UserID    int64     `json:"user_id"`
	PartnerID int64     `json:"partner_id"`
	Ignore    bool      `json:"ignore"`
	CreatedAt time.Time `json:"created_at"`
}

// RawCandidate is a single search result
type RawCandidate struct {
	ID        int64
	FirstName string
	LastName  string
}

// Candidate is the partner currently presented to a user
type Candidate struct {
	ID        int64
	FirstName string
	LastName  string
	PhotoIDs  []int64
}

// Photo is a profile photo with its like counter
type Photo struct {
	ID      int64
	OwnerID int64
	Likes   int
}

// SearchFilter holds users.search parameters
type SearchFilter struct {
	Sex      Sex
	CityID   int
	AgeFrom  int
	AgeTo    int
	Status   int
	HasPhoto bool
}

// GenderName maps a first name to a sex
type GenderName struct {
	Name string
	Sex  Sex
}

// IncomingMessage is an inbound chat event
type IncomingMessage struct {
	UserID int64
	Text   string
}

// OutgoingMessage is a chat message sent on behalf of the community
type OutgoingMessage struct {
	UserID     int64
	Text       string
	Keyboard   *Keyboard
	Attachment string
}

// ButtonColor is a keyboard button color
type ButtonColor string

const (
	ColorPrimary   ButtonColor = "primary"
	ColorSecondary ButtonColor = "secondary"
	ColorNegative  ButtonColor = "negative"
	ColorPositive  ButtonColor = "positive"
)

// Button is a keyboard button; Link turns it into an open-link button
type Button struct {
	Label string
	Color ButtonColor
	Link  string
}

// Keyboard is a chat keyboard layout, one slice per row
type Keyboard struct {
	OneTime bool
	Inline  bool
	Rows    [][]Button
}
