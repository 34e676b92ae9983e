package vk

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"vkinder-bot/internal/models"
)

type city struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type user struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Sex       int16  `json:"sex"`
	BirthDate string `json:"bdate"`
	City      *city  `json:"city"`
}

// GetProfile fetches a user's profile with the fields needed for search
func (c *Client) GetProfile(ctx context.Context, userID int64) (*models.RawProfile, error) {
	params := url.Values{}
	params.Set("user_ids", strconv.FormatInt(userID, 10))
	params.Set("fields", "city,bdate,sex")

	var users []user
	if err := c.call(ctx, "users.get", c.groupToken, params, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %d not returned by users.get", userID)
	}

	u := users[0]
	profile := &models.RawProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate,
		Sex:       models.Sex(u.Sex),
	}
	if u.City != nil && u.City.ID != 0 {
		cityID := u.City.ID
		profile.CityID = &cityID
	}
	return profile, nil
}

// users.search never returns more than this many results for one query
const searchResultLimit = 1000

type searchPage struct {
	Count int    `json:"count"`
	Items []user `json:"items"`
}

// SearchStream iterates over users.search results page by page
type SearchStream struct {
	client   *Client
	params   url.Values
	pageSize int
	offset   int
	total    int
	buf      []user
	done     bool
}

// Search returns a lazy stream over users matching the filter.
// No request is made until the first call to Next.
func (c *Client) Search(filter models.SearchFilter, pageSize int) *SearchStream {
	params := url.Values{}
	params.Set("sex", strconv.Itoa(int(filter.Sex)))
	params.Set("city", strconv.Itoa(filter.CityID))
	params.Set("age_from", strconv.Itoa(filter.AgeFrom))
	params.Set("age_to", strconv.Itoa(filter.AgeTo))
	params.Set("status", strconv.Itoa(filter.Status))
	if filter.HasPhoto {
		params.Set("has_photo", "1")
	}

	if pageSize <= 0 || pageSize > searchResultLimit {
		pageSize = searchResultLimit
	}

	return &SearchStream{
		client:   c,
		params:   params,
		pageSize: pageSize,
		total:    -1,
	}
}

// Next returns the next search result or io.EOF once the results are drained
func (s *SearchStream) Next(ctx context.Context) (*models.RawCandidate, error) {
	for len(s.buf) == 0 {
		if s.done {
			return nil, io.EOF
		}
		if err := s.fetch(ctx); err != nil {
			return nil, err
		}
	}

	u := s.buf[0]
	s.buf = s.buf[1:]
	return &models.RawCandidate{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, nil
}

// Close drops buffered results, later calls to Next return io.EOF
func (s *SearchStream) Close() {
	s.done = true
	s.buf = nil
}

func (s *SearchStream) fetch(ctx context.Context) error {
	params := url.Values{}
	for k, v := range s.params {
		params[k] = v
	}
	params.Set("count", strconv.Itoa(s.pageSize))
	params.Set("offset", strconv.Itoa(s.offset))

	var page searchPage
	if err := s.client.call(ctx, "users.search", s.client.userToken, params, &page); err != nil {
		return err
	}

	s.offset += len(page.Items)
	s.total = page.Count
	if s.total > searchResultLimit {
		s.total = searchResultLimit
	}
	if len(page.Items) == 0 || s.offset >= s.total {
		s.done = true
	}
	s.buf = page.Items
	return nil
}
