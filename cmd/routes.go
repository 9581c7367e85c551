package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddleware)

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/sign_out", authMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.GetMe))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))
	mux.Put("/user/profile", authMiddleware.ThenFunc(app.userHandler.UpdateProfile))
	mux.Post("/user/device_token", authMiddleware.ThenFunc(app.userHandler.RegisterDeviceToken))

	// Listings
	mux.Get("/listings", standardMiddleware.ThenFunc(app.listingHandler.GetListings))
	mux.Get("/listings/:id", standardMiddleware.ThenFunc(app.listingHandler.GetListingByID))
	mux.Post("/listings", authMiddleware.ThenFunc(app.listingHandler.CreateListing))
	mux.Put("/listings/:id/status", authMiddleware.ThenFunc(app.listingHandler.UpdateListingStatus))
	mux.Del("/listings/:id", authMiddleware.ThenFunc(app.listingHandler.DeleteListing))

	// Favorites
	mux.Post("/favorites/toggle", authMiddleware.ThenFunc(app.favoriteHandler.Toggle))
	mux.Get("/favorites/check/user/:user_id/listing/:listing_id", authMiddleware.ThenFunc(app.favoriteHandler.IsFavorite))
	mux.Get("/favorites/:user_id", authMiddleware.ThenFunc(app.favoriteHandler.GetFavoritesByUser))

	// Listing events stream
	mux.Get("/ws", standardMiddleware.ThenFunc(app.ListingEventsHandler))

	return standardMiddleware.Then(mux)
}
