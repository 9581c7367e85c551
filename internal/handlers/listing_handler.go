package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
	"github.com/anashamdi123/3a9ari-sub001/internal/notify"
	"github.com/anashamdi123/3a9ari-sub001/internal/repositories"
	"github.com/anashamdi123/3a9ari-sub001/internal/services"
)

type ListingHandler struct {
	Service  *services.ListingService
	Notifier *notify.Notifier
	Events   chan<- models.ListingEvent
}

// GetListings serves one page of listings for the given filter. The filter
// fields all come from query params; page defaults to 1.
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	ownerID, _ := strconv.Atoi(q.Get("owner_id"))

	filter := models.ListingFilter{
		Status:     q.Get("status"),
		OwnerID:    ownerID,
		Category:   q.Get("category"),
		City:       q.Get("city"),
		Delegation: q.Get("delegation"),
	}

	result, err := h.Service.GetListingsPage(r.Context(), filter, page)
	if err != nil {
		http.Error(w, "Failed to get listings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	listing, err := h.Service.GetListingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

// CreateListing takes an owner submission. New listings always start pending
// and only show up in the feed after moderation.
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Location == "" {
		http.Error(w, "Title and location are required", http.StatusBadRequest)
		return
	}

	listing, err := h.Service.CreateListing(r.Context(), models.Listing{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		PriceUnit:   req.PriceUnit,
		Location:    req.Location,
		Size:        req.Size,
		SizeUnit:    req.SizeUnit,
		Phone:       req.Phone,
		Images:      req.Images,
		Category:    req.Category,
	})
	if err != nil {
		http.Error(w, "Failed to create listing", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(listing)
}

// UpdateListingStatus is the moderation entry point. Approval fans out to the
// owner's device and to websocket subscribers.
func (h *ListingHandler) UpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	switch req.Status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	listing, err := h.Service.UpdateListingStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if req.Status == models.StatusApproved {
		h.Notifier.ListingApproved(context.WithoutCancel(r.Context()), listing)
		h.publish(models.ListingEvent{
			Type:      models.EventListingApproved,
			ListingID: listing.ID,
			Title:     listing.Title,
			OwnerID:   listing.UserID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteListing(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) publish(ev models.ListingEvent) {
	if h.Events == nil {
		return
	}
	select {
	case h.Events <- ev:
	default:
	}
}
