package models

// ListingEvent is pushed to websocket subscribers when a listing goes live
// or collects a favorite.
type ListingEvent struct {
	Type      string `json:"type"`
	ListingID int    `json:"listing_id"`
	Title     string `json:"title"`
	OwnerID   int    `json:"owner_id"`
}

const (
	EventListingApproved  = "listing_approved"
	EventListingFavorited = "listing_favorited"
)
