package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

type FavoriteRepository struct {
	DB *sql.DB
}

func (r *FavoriteRepository) AddToFavorites(ctx context.Context, userID, listingID int) (models.Favorite, error) {
	query := `INSERT INTO favorites (user_id, listing_id, created_at) VALUES (?, ?, NOW())`
	result, err := r.DB.ExecContext(ctx, query, userID, listingID)
	if err != nil {
		return models.Favorite{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Favorite{}, err
	}

	var fav models.Favorite
	err = r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, listing_id, created_at FROM favorites WHERE id = ?`, id).
		Scan(&fav.ID, &fav.UserID, &fav.ListingID, &fav.CreatedAt)
	if err != nil {
		return models.Favorite{}, err
	}
	return fav, nil
}

func (r *FavoriteRepository) RemoveFromFavorites(ctx context.Context, userID, listingID int) error {
	query := `DELETE FROM favorites WHERE user_id = ? AND listing_id = ?`
	_, err := r.DB.ExecContext(ctx, query, userID, listingID)
	return err
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, listingID int) (bool, error) {
	query := `SELECT COUNT(*) FROM favorites WHERE user_id = ? AND listing_id = ?`
	var count int
	err := r.DB.QueryRowContext(ctx, query, userID, listingID).Scan(&count)
	return count > 0, err
}

func (r *FavoriteRepository) GetFavoritesByUser(ctx context.Context, userID int) ([]models.Favorite, error) {
	query := `SELECT f.id, f.user_id, f.listing_id, f.created_at,
	                 l.id, l.user_id, l.title, l.description, l.price, l.price_unit, l.location,
	                 l.size, l.size_unit, l.phone, l.images, l.status, l.category, l.created_at, l.updated_at
	          FROM favorites f
	          JOIN listings l ON f.listing_id = l.id
	          WHERE f.user_id = ?
	          ORDER BY f.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []models.Favorite
	for rows.Next() {
		var (
			fav        models.Favorite
			l          models.Listing
			imagesJSON sql.NullString
		)
		err := rows.Scan(&fav.ID, &fav.UserID, &fav.ListingID, &fav.CreatedAt,
			&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &l.PriceUnit, &l.Location,
			&l.Size, &l.SizeUnit, &l.Phone, &imagesJSON, &l.Status, &l.Category,
			&l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, err
		}
		l.Images = decodeImages(imagesJSON, l.ID)
		fav.Listing = &l
		favs = append(favs, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorites rows error: %w", err)
	}
	return favs, nil
}
