package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"vkinder-bot/internal/models"
)

// ProfileResolver builds a searchable profile from social network data
type ProfileResolver struct {
	source  ProfileSource
	genders GenderStore
	now     func() time.Time
}

// NewProfileResolver creates a new profile resolver
func NewProfileResolver(source ProfileSource, genders GenderStore) *ProfileResolver {
	return &ProfileResolver{
		source:  source,
		genders: genders,
		now:     time.Now,
	}
}

// Resolve fetches the user's profile and derives city, age and sex.
// When any of them is missing the partial profile is returned with ErrIncompleteProfile.
func (r *ProfileResolver) Resolve(ctx context.Context, userID int64) (*models.UserProfile, error) {
	raw, err := r.source.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	profile := &models.UserProfile{ID: userID}

	if raw.CityID != nil {
		profile.CityID = *raw.CityID
	}

	if birth, ok := ParseBirthDate(raw.BirthDate); ok {
		profile.Age = Age(birth, r.now())
	}

	profile.Sex = raw.Sex
	if profile.Sex == models.SexUnknown {
		profile.Sex, err = r.InferSex(ctx, raw.FirstName)
		if err != nil {
			return nil, err
		}
	}

	if profile.CityID == 0 || profile.Age <= 0 || !profile.Sex.Valid() {
		return profile, ErrIncompleteProfile
	}
	return profile, nil
}

// InferSex guesses the sex from a first name using the reference table
func (r *ProfileResolver) InferSex(ctx context.Context, firstName string) (models.Sex, error) {
	name := NormalizeName(firstName)
	if name == "" {
		return models.SexUnknown, nil
	}
	sex, err := r.genders.GetSex(ctx, name)
	if err != nil {
		return models.SexUnknown, fmt.Errorf("failed to infer sex: %w", err)
	}
	return sex, nil
}

var yoReplacer = strings.NewReplacer("ё", "е", "Ё", "Е")

// NormalizeName capitalizes a name and replaces ё with е, the form used by the names table
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	name = string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
	return yoReplacer.Replace(name)
}

// ParseBirthDate parses a D.M.YYYY date, dates without a year are not usable
func ParseBirthDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2.1.2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Age returns the number of full years between birth and now
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
