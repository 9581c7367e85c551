package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrListingNotFound    = errors.New("models: listing not found")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrFavoriteNotFound   = errors.New("models: favorite not found")
	ErrDuplicateFavorite  = errors.New("models: favorite already exists")
	ErrNotAuthenticated   = errors.New("models: not authenticated")
)
