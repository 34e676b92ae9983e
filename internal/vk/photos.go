package vk

import (
	"context"
	"net/url"
	"strconv"

	"vkinder-bot/internal/models"
)

type photo struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"owner_id"`
	Likes   struct {
		Count int `json:"count"`
	} `json:"likes"`
}

type photoPage struct {
	Count int     `json:"count"`
	Items []photo `json:"items"`
}

// GetPhotos fetches the owner's profile album with like counters
func (c *Client) GetPhotos(ctx context.Context, ownerID int64) ([]models.Photo, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("album_id", "profile")
	params.Set("extended", "1")

	var page photoPage
	if err := c.call(ctx, "photos.get", c.userToken, params, &page); err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(page.Items))
	for _, p := range page.Items {
		photos = append(photos, models.Photo{
			ID:      p.ID,
			OwnerID: p.OwnerID,
			Likes:   p.Likes.Count,
		})
	}
	return photos, nil
}
