package handlers

import (
	"context"
	"net/http"
	"strconv"

	"vkinder-bot/internal/middleware"
	"vkinder-bot/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FavoritesLister lists a user's liked partners
type FavoritesLister interface {
	List(ctx context.Context, userID int64) ([]*models.Partner, error)
}

// UserLister lists registered users
type UserLister interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

// AdminHandler serves read-only admin endpoints
type AdminHandler struct {
	users     UserLister
	favorites FavoritesLister
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users UserLister, favorites FavoritesLister) *AdminHandler {
	return &AdminHandler{
		users:     users,
		favorites: favorites,
	}
}

// ListUsers handles GET /api/v1/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.users.ListIDs(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondError(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	respondJSON(w, map[string]interface{}{"users": ids, "total": len(ids)}, http.StatusOK)
}

// ListFavorites handles GET /api/v1/users/{user_id}/favorites
func (h *AdminHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(w, "user_id must be a positive integer", http.StatusBadRequest)
		return
	}

	partners, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to list favorites")
		respondError(w, "Failed to list favorites", http.StatusInternalServerError)
		return
	}
	if partners == nil {
		partners = []*models.Partner{}
	}

	log.Info().
		Str("admin", middleware.GetSubject(r.Context())).
		Int64("user_id", userID).
		Int("favorites", len(partners)).
		Msg("Favorites listed")

	respondJSON(w, map[string]interface{}{"favorites": partners, "total": len(partners)}, http.StatusOK)
}
