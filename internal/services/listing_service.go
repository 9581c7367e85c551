package services

import (
	"context"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
	"github.com/anashamdi123/3a9ari-sub001/internal/repositories"
)

// PageSize is the fixed number of listings fetched per pagination request.
const PageSize = 10

type ListingService struct {
	ListingRepo *repositories.ListingRepository
}

// GetListingsPage runs the count query and the range query for one page and
// assembles the pagination envelope. A full page means more rows may exist.
func (s *ListingService) GetListingsPage(ctx context.Context, f models.ListingFilter, page int) (models.ListingPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.ListingRepo.CountListings(ctx, f)
	if err != nil {
		return models.ListingPage{}, err
	}

	listings, err := s.ListingRepo.ListListings(ctx, f, page, PageSize)
	if err != nil {
		return models.ListingPage{}, err
	}

	return models.ListingPage{
		Listings:   listings,
		TotalCount: total,
		Page:       page,
		HasMore:    len(listings) == PageSize,
	}, nil
}

func (s *ListingService) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	return s.ListingRepo.GetListingByID(ctx, id)
}

func (s *ListingService) CreateListing(ctx context.Context, l models.Listing) (models.Listing, error) {
	return s.ListingRepo.CreateListing(ctx, l)
}

func (s *ListingService) UpdateListingStatus(ctx context.Context, id int, status string) (models.Listing, error) {
	return s.ListingRepo.UpdateListingStatus(ctx, id, status)
}

func (s *ListingService) DeleteListing(ctx context.Context, id int) error {
	return s.ListingRepo.DeleteListing(ctx, id)
}
