package services

import (
	"context"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
	"github.com/anashamdi123/3a9ari-sub001/internal/repositories"
)

type FavoriteService struct {
	FavoriteRepo *repositories.FavoriteRepository
}

// Toggle flips membership in the favorites join table and reports the new
// state: true when the listing ended up favorited.
func (s *FavoriteService) Toggle(ctx context.Context, userID, listingID int) (bool, error) {
	liked, err := s.FavoriteRepo.IsFavorite(ctx, userID, listingID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.FavoriteRepo.RemoveFromFavorites(ctx, userID, listingID); err != nil {
			return true, err
		}
		return false, nil
	}
	if _, err := s.FavoriteRepo.AddToFavorites(ctx, userID, listingID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, listingID int) (bool, error) {
	return s.FavoriteRepo.IsFavorite(ctx, userID, listingID)
}

func (s *FavoriteService) GetFavoritesByUser(ctx context.Context, userID int) ([]models.Favorite, error) {
	return s.FavoriteRepo.GetFavoritesByUser(ctx, userID)
}
