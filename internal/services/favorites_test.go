package services

import (
	"context"
	"testing"

	"vkinder-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveVerdictCreatesPartner(t *testing.T) {
	partners := newFakePartners()
	svc := NewFavoritesService(partners, "vk.com")
	ctx := context.Background()

	candidate := &models.Candidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"}
	require.NoError(t, svc.SaveVerdict(ctx, 1, candidate, false))

	assert.Equal(t, &models.Partner{
		ID:        10,
		FirstName: "Ольга",
		LastName:  "Петрова",
		Link:      "https://vk.com/id10",
	}, partners.partners[10])

	ignored, err := partners.IsIgnored(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, ignored)
}

func TestSaveVerdictFirstWriteWins(t *testing.T) {
	partners := newFakePartners()
	svc := NewFavoritesService(partners, "vk.com")
	ctx := context.Background()
	candidate := &models.Candidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"}

	require.NoError(t, svc.SaveVerdict(ctx, 1, candidate, false))
	require.NoError(t, svc.SaveVerdict(ctx, 1, candidate, true))

	assert.Equal(t, 1, partners.relCount(1, 10))
	ignored, err := partners.IsIgnored(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, ignored)
}

func TestSaveVerdictKeepsStoredPartnerNames(t *testing.T) {
	partners := newFakePartners()
	svc := NewFavoritesService(partners, "vk.com")
	ctx := context.Background()

	require.NoError(t, svc.SaveVerdict(ctx, 1, &models.Candidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"}, false))
	require.NoError(t, svc.SaveVerdict(ctx, 2, &models.Candidate{ID: 10, FirstName: "Оля", LastName: "Сидорова"}, true))

	assert.Equal(t, "Ольга", partners.partners[10].FirstName)
	assert.Equal(t, "Петрова", partners.partners[10].LastName)

	ignored, err := partners.IsIgnored(ctx, 2, 10)
	require.NoError(t, err)
	assert.True(t, ignored)
}

func TestListFavoritesOnlyLiked(t *testing.T) {
	partners := newFakePartners()
	svc := NewFavoritesService(partners, "vk.com")
	ctx := context.Background()

	require.NoError(t, svc.SaveVerdict(ctx, 1, &models.Candidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"}, false))
	require.NoError(t, svc.SaveVerdict(ctx, 1, &models.Candidate{ID: 11, FirstName: "Мария", LastName: "Иванова"}, true))
	require.NoError(t, svc.SaveVerdict(ctx, 1, &models.Candidate{ID: 12, FirstName: "Ирина", LastName: "Смирнова"}, false))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ольга Петрова\nhttps://vk.com/id10", FormatFavorite(list[0]))
	assert.Equal(t, "Ирина Смирнова\nhttps://vk.com/id12", FormatFavorite(list[1]))
}
