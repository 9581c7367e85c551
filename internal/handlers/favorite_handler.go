package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
	"github.com/anashamdi123/3a9ari-sub001/internal/notify"
	"github.com/anashamdi123/3a9ari-sub001/internal/services"
)

type FavoriteHandler struct {
	Service        *services.FavoriteService
	ListingService *services.ListingService
	Notifier       *notify.Notifier
	Events         chan<- models.ListingEvent
}

// Toggle flips the caller's favorite for one listing and reports the new
// membership.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == 0 {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	liked, err := h.Service.Toggle(r.Context(), userID, req.ListingID)
	if err != nil {
		http.Error(w, "Failed to toggle favorite", http.StatusInternalServerError)
		return
	}

	if liked {
		if listing, err := h.ListingService.GetListingByID(r.Context(), req.ListingID); err == nil {
			h.Notifier.ListingFavorited(context.WithoutCancel(r.Context()), listing)
			h.publish(models.ListingEvent{
				Type:      models.EventListingFavorited,
				ListingID: listing.ID,
				Title:     listing.Title,
				OwnerID:   listing.UserID,
			})
		}
	}

	json.NewEncoder(w).Encode(map[string]bool{"liked": liked})
}

func (h *FavoriteHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get(":user_id")
	listingIDStr := r.URL.Query().Get(":listing_id")

	userID, err1 := strconv.Atoi(userIDStr)
	listingID, err2 := strconv.Atoi(listingIDStr)
	if err1 != nil || err2 != nil {
		http.Error(w, "Invalid user_id or listing_id", http.StatusBadRequest)
		return
	}

	liked, err := h.Service.IsFavorite(r.Context(), userID, listingID)
	if err != nil {
		http.Error(w, "Failed to check favorite status", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"liked": liked})
}

func (h *FavoriteHandler) GetFavoritesByUser(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get(":user_id")
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		http.Error(w, "Invalid user_id", http.StatusBadRequest)
		return
	}

	favs, err := h.Service.GetFavoritesByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get favorites", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(favs)
}

func (h *FavoriteHandler) publish(ev models.ListingEvent) {
	if h.Events == nil {
		return
	}
	select {
	case h.Events <- ev:
	default:
	}
}
