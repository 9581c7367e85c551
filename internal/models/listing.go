package models

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Listing struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	PriceUnit   string     `json:"price_unit,omitempty"`
	Location    string     `json:"location"`
	Size        float64    `json:"size"`
	SizeUnit    string     `json:"size_unit,omitempty"`
	Phone       string     `json:"phone"`
	Images      []string   `json:"images"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ListingFilter carries the query predicate for listing reads. All fields are
// optional; empty means "do not filter on this". Compared structurally, so a
// changed field is a changed filter.
type ListingFilter struct {
	Status     string `json:"status,omitempty"`
	OwnerID    int    `json:"owner_id,omitempty"`
	Category   string `json:"category,omitempty"`
	City       string `json:"city,omitempty"`
	Delegation string `json:"delegation,omitempty"`
}

type ListingPage struct {
	Listings   []Listing `json:"listings"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	HasMore    bool      `json:"has_more"`
}

type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	PriceUnit   string   `json:"price_unit"`
	Location    string   `json:"location"`
	Size        float64  `json:"size"`
	SizeUnit    string   `json:"size_unit"`
	Phone       string   `json:"phone"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
}
