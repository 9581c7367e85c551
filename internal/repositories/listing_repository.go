package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

const countCacheTTL = 30 * time.Second

type ListingRepository struct {
	DB    *sql.DB
	Cache *redis.Client
}

// buildListingConditions turns a filter into SQL conditions and params.
// Location matching runs in one of three modes, never combined: both city and
// delegation given matches the exact "delegation, city" string, city alone
// matches any location ending in ", city", delegation alone matches any
// location starting with "delegation,".
func buildListingConditions(f models.ListingFilter) ([]string, []interface{}) {
	var (
		conditions []string
		params     []interface{}
	)

	if f.Status != "" {
		conditions = append(conditions, "l.status = ?")
		params = append(params, f.Status)
	}
	if f.OwnerID > 0 {
		conditions = append(conditions, "l.user_id = ?")
		params = append(params, f.OwnerID)
	}
	if f.Category != "" {
		conditions = append(conditions, "l.category = ?")
		params = append(params, f.Category)
	}

	switch {
	case f.City != "" && f.Delegation != "":
		conditions = append(conditions, "l.location LIKE ?")
		params = append(params, f.Delegation+", "+f.City)
	case f.City != "":
		conditions = append(conditions, "l.location LIKE ?")
		params = append(params, "%, "+f.City)
	case f.Delegation != "":
		conditions = append(conditions, "l.location LIKE ?")
		params = append(params, f.Delegation+",%")
	}

	return conditions, params
}

func countCacheKey(f models.ListingFilter) string {
	return "listings:count:" + f.Status + ":" + strconv.Itoa(f.OwnerID) + ":" +
		f.Category + ":" + f.City + ":" + f.Delegation
}

func (r *ListingRepository) CountListings(ctx context.Context, f models.ListingFilter) (int, error) {
	key := countCacheKey(f)
	if r.Cache != nil {
		if cached, err := r.Cache.Get(ctx, key).Int(); err == nil {
			return cached, nil
		}
	}

	query := `SELECT COUNT(*) FROM listings l`
	conditions, params := buildListingConditions(f)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.DB.QueryRowContext(ctx, query, params...).Scan(&count); err != nil {
		return 0, err
	}

	if r.Cache != nil {
		if err := r.Cache.Set(ctx, key, count, countCacheTTL).Err(); err != nil {
			log.Printf("failed to cache listing count: %v", err)
		}
	}
	return count, nil
}

func (r *ListingRepository) ListListings(ctx context.Context, f models.ListingFilter, page, limit int) ([]models.Listing, error) {
	baseQuery := `
		SELECT l.id, l.user_id, l.title, l.description, l.price, l.price_unit, l.location,
		       l.size, l.size_unit, l.phone, l.images, l.status, l.category, l.created_at, l.updated_at
		FROM listings l
	`
	conditions, params := buildListingConditions(f)
	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY l.created_at DESC LIMIT ? OFFSET ?"
	params = append(params, limit, (page-1)*limit)

	rows, err := r.DB.QueryContext(ctx, baseQuery, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing rows error: %w", err)
	}
	return listings, nil
}

func scanListing(rows *sql.Rows) (models.Listing, error) {
	var (
		l          models.Listing
		imagesJSON sql.NullString
	)
	err := rows.Scan(
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &l.PriceUnit, &l.Location,
		&l.Size, &l.SizeUnit, &l.Phone, &imagesJSON, &l.Status, &l.Category,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}
	l.Images = decodeImages(imagesJSON, l.ID)
	return l, nil
}

func decodeImages(imagesJSON sql.NullString, listingID int) []string {
	if !imagesJSON.Valid || imagesJSON.String == "" {
		return nil
	}
	var images []string
	if err := json.Unmarshal([]byte(imagesJSON.String), &images); err != nil {
		log.Printf("failed to decode images for listing %d: %v", listingID, err)
		return nil
	}
	return images
}

func (r *ListingRepository) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	query := `
		SELECT l.id, l.user_id, l.title, l.description, l.price, l.price_unit, l.location,
		       l.size, l.size_unit, l.phone, l.images, l.status, l.category, l.created_at, l.updated_at
		FROM listings l
		WHERE l.id = ?
	`
	var (
		l          models.Listing
		imagesJSON sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &l.PriceUnit, &l.Location,
		&l.Size, &l.SizeUnit, &l.Phone, &imagesJSON, &l.Status, &l.Category,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Listing{}, ErrListingNotFound
	}
	if err != nil {
		return models.Listing{}, err
	}
	l.Images = decodeImages(imagesJSON, l.ID)
	return l, nil
}

func (r *ListingRepository) CreateListing(ctx context.Context, l models.Listing) (models.Listing, error) {
	imagesJSON, err := json.Marshal(l.Images)
	if err != nil {
		return models.Listing{}, err
	}
	query := `
		INSERT INTO listings
			(user_id, title, description, price, price_unit, location, size, size_unit, phone, images, status, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query,
		l.UserID, l.Title, l.Description, l.Price, l.PriceUnit, l.Location,
		l.Size, l.SizeUnit, l.Phone, string(imagesJSON), models.StatusPending, l.Category,
	)
	if err != nil {
		return models.Listing{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Listing{}, err
	}
	l.ID = int(id)
	l.Status = models.StatusPending
	r.invalidateCounts(ctx)
	return l, nil
}

func (r *ListingRepository) UpdateListingStatus(ctx context.Context, id int, status string) (models.Listing, error) {
	query := `UPDATE listings SET status = ?, updated_at = NOW() WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return models.Listing{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.Listing{}, err
	}
	if rowsAffected == 0 {
		return models.Listing{}, ErrListingNotFound
	}
	r.invalidateCounts(ctx)
	return r.GetListingByID(ctx, id)
}

func (r *ListingRepository) DeleteListing(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrListingNotFound
	}
	r.invalidateCounts(ctx)
	return nil
}

// invalidateCounts drops all cached counts after a write. Counts carry a
// short TTL anyway, so a SCAN here would be overkill.
func (r *ListingRepository) invalidateCounts(ctx context.Context) {
	if r.Cache == nil {
		return
	}
	iter := r.Cache.Scan(ctx, 0, "listings:count:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.Cache.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("failed to drop cached count %s: %v", iter.Val(), err)
		}
	}
}
