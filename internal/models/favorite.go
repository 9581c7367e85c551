package models

import (
	"time"
)

// Favorite is a user-to-listing bookmark. The (user_id, listing_id) pair is
// unique at the database level.
type Favorite struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ListingID int       `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
	Listing   *Listing  `json:"listing,omitempty"`
}

type ToggleFavoriteRequest struct {
	ListingID int `json:"listing_id"`
}
