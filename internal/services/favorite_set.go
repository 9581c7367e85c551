package services

import (
	"context"
	"sync"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

// FavoriteSource is the favorites surface a FavoriteSet needs. Satisfied by
// repositories.FavoriteRepository and by test fakes.
type FavoriteSource interface {
	AddToFavorites(ctx context.Context, userID, listingID int) (models.Favorite, error)
	RemoveFromFavorites(ctx context.Context, userID, listingID int) error
	GetFavoritesByUser(ctx context.Context, userID int) ([]models.Favorite, error)
}

// FavoriteSet mirrors one user's favorites locally. State only mutates after
// the backend confirmed the matching write; a failed call records the error
// and leaves local state untouched.
type FavoriteSet struct {
	src FavoriteSource

	mu      sync.Mutex
	userID  int
	rows    []models.Favorite
	loading bool
	err     error
}

func NewFavoriteSet(src FavoriteSource) *FavoriteSet {
	return &FavoriteSet{src: src}
}

// SetUser binds the set to an identity. Zero means signed out and clears the
// local rows without a backend call.
func (s *FavoriteSet) SetUser(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	if userID == 0 {
		s.rows = nil
		s.err = nil
	}
}

// Fetch replaces the local rows with the user's favorites, each joined with
// its listing. No-op without an identity.
func (s *FavoriteSet) Fetch(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	if userID == 0 {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	rows, err := s.src.GetFavoritesByUser(ctx, userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return err
	}
	s.rows = rows
	s.err = nil
	return nil
}

// Toggle adds or removes the listing depending on current local membership.
func (s *FavoriteSet) Toggle(ctx context.Context, listingID int) error {
	s.mu.Lock()
	userID := s.userID
	idx := -1
	for i, f := range s.rows {
		if f.ListingID == listingID {
			idx = i
			break
		}
	}
	s.mu.Unlock()

	if userID == 0 {
		return nil
	}

	if idx >= 0 {
		if err := s.src.RemoveFromFavorites(ctx, userID, listingID); err != nil {
			s.setErr(err)
			return err
		}
		s.mu.Lock()
		s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
		s.err = nil
		s.mu.Unlock()
		return nil
	}

	fav, err := s.src.AddToFavorites(ctx, userID, listingID)
	if err != nil {
		s.setErr(err)
		return err
	}
	s.mu.Lock()
	s.rows = append(s.rows, fav)
	s.err = nil
	s.mu.Unlock()
	return nil
}

// IsFavorite is a pure predicate over local state.
func (s *FavoriteSet) IsFavorite(listingID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.rows {
		if f.ListingID == listingID {
			return true
		}
	}
	return false
}

func (s *FavoriteSet) Favorites() []models.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Favorite, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *FavoriteSet) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *FavoriteSet) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *FavoriteSet) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// BindAuth consumes session-change events: fetch on sign-in, clear on
// sign-out. Runs until the events channel closes.
func (s *FavoriteSet) BindAuth(ctx context.Context, events <-chan AuthEvent) {
	for ev := range events {
		switch ev.Type {
		case AuthSignedIn:
			s.SetUser(ev.UserID)
			_ = s.Fetch(ctx)
		case AuthSignedOut:
			s.SetUser(0)
		}
	}
}
