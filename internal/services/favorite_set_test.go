package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

type fakeFavoriteSource struct {
	nextID     int
	rows       []models.Favorite
	listCalls  int
	failAdd    bool
	failRemove bool
	failList   bool
}

func (f *fakeFavoriteSource) AddToFavorites(ctx context.Context, userID, listingID int) (models.Favorite, error) {
	if f.failAdd {
		return models.Favorite{}, errors.New("insert failed")
	}
	f.nextID++
	fav := models.Favorite{
		ID:        f.nextID,
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now(),
	}
	f.rows = append(f.rows, fav)
	return fav, nil
}

func (f *fakeFavoriteSource) RemoveFromFavorites(ctx context.Context, userID, listingID int) error {
	if f.failRemove {
		return errors.New("delete failed")
	}
	for i, fav := range f.rows {
		if fav.UserID == userID && fav.ListingID == listingID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeFavoriteSource) GetFavoritesByUser(ctx context.Context, userID int) ([]models.Favorite, error) {
	f.listCalls++
	if f.failList {
		return nil, errors.New("select failed")
	}
	var out []models.Favorite
	for _, fav := range f.rows {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func TestFavoriteSet_ToggleAlternation(t *testing.T) {
	src := &fakeFavoriteSource{}
	set := NewFavoriteSet(src)
	set.SetUser(7)
	ctx := context.Background()

	if set.IsFavorite(42) {
		t.Fatal("fresh set reports listing as favorite")
	}

	if err := set.Toggle(ctx, 42); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !set.IsFavorite(42) {
		t.Fatal("toggle on: listing not favorite")
	}

	if err := set.Toggle(ctx, 42); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if set.IsFavorite(42) {
		t.Fatal("toggle off: listing still favorite")
	}
	if len(src.rows) != 0 {
		t.Fatalf("expected empty backend rows got %d", len(src.rows))
	}
}

func TestFavoriteSet_FailedInsertLeavesState(t *testing.T) {
	src := &fakeFavoriteSource{failAdd: true}
	set := NewFavoriteSet(src)
	set.SetUser(7)
	ctx := context.Background()

	if err := set.Toggle(ctx, 42); err == nil {
		t.Fatal("expected toggle error")
	}
	if set.IsFavorite(42) {
		t.Fatal("failed insert still marked listing favorite")
	}
	if set.Err() == nil {
		t.Fatal("expected recorded error")
	}
}

func TestFavoriteSet_FailedRemoveLeavesState(t *testing.T) {
	src := &fakeFavoriteSource{}
	set := NewFavoriteSet(src)
	set.SetUser(7)
	ctx := context.Background()

	if err := set.Toggle(ctx, 42); err != nil {
		t.Fatalf("toggle on: %v", err)
	}

	src.failRemove = true
	if err := set.Toggle(ctx, 42); err == nil {
		t.Fatal("expected toggle error")
	}
	if !set.IsFavorite(42) {
		t.Fatal("failed delete dropped the local favorite")
	}
}

func TestFavoriteSet_FetchRequiresIdentity(t *testing.T) {
	src := &fakeFavoriteSource{}
	set := NewFavoriteSet(src)
	ctx := context.Background()

	if err := set.Fetch(ctx); err != nil {
		t.Fatalf("fetch without identity: %v", err)
	}
	if src.listCalls != 0 {
		t.Fatal("fetch without identity hit the backend")
	}
}

func TestFavoriteSet_SignOutClearsLocally(t *testing.T) {
	src := &fakeFavoriteSource{}
	set := NewFavoriteSet(src)
	set.SetUser(7)
	ctx := context.Background()

	if err := set.Toggle(ctx, 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := set.Toggle(ctx, 2); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	calls := src.listCalls
	set.SetUser(0)
	if len(set.Favorites()) != 0 {
		t.Fatal("sign out left local favorites")
	}
	if src.listCalls != calls {
		t.Fatal("sign out hit the backend")
	}
}

func TestFavoriteSet_BindAuth(t *testing.T) {
	src := &fakeFavoriteSource{}
	set := NewFavoriteSet(src)
	ctx := context.Background()

	if _, err := src.AddToFavorites(ctx, 7, 42); err != nil {
		t.Fatalf("seed: %v", err)
	}

	events := make(chan AuthEvent, 2)
	events <- AuthEvent{Type: AuthSignedIn, UserID: 7}
	events <- AuthEvent{Type: AuthSignedOut, UserID: 7}
	close(events)

	set.BindAuth(ctx, events)

	if len(set.Favorites()) != 0 {
		t.Fatal("sign-out event left local favorites")
	}
	if src.listCalls != 1 {
		t.Fatalf("expected one fetch from sign-in event got %d", src.listCalls)
	}
}

func TestFavoriteSet_FetchReplacesAndKeepsOnFailure(t *testing.T) {
	src := &fakeFavoriteSource{}
	set := NewFavoriteSet(src)
	set.SetUser(7)
	ctx := context.Background()

	if _, err := src.AddToFavorites(ctx, 7, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := src.AddToFavorites(ctx, 7, 2); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := set.Fetch(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := len(set.Favorites()); got != 2 {
		t.Fatalf("expected 2 favorites got %d", got)
	}

	src.failList = true
	if err := set.Fetch(ctx); err == nil {
		t.Fatal("expected fetch error")
	}
	if got := len(set.Favorites()); got != 2 {
		t.Fatalf("failure blanked favorites: expected 2 got %d", got)
	}
	if set.Err() == nil {
		t.Fatal("expected recorded error")
	}
}
