package main

import (
	"database/sql"
	"log"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"github.com/anashamdi123/3a9ari-sub001/internal/config"
	"github.com/anashamdi123/3a9ari-sub001/internal/handlers"
	"github.com/anashamdi123/3a9ari-sub001/internal/notify"
	"github.com/anashamdi123/3a9ari-sub001/internal/repositories"
	"github.com/anashamdi123/3a9ari-sub001/internal/services"
	"github.com/anashamdi123/3a9ari-sub001/utils"
)

type application struct {
	cfg      config.Config
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	userRepo        *repositories.UserRepository
	listingRepo     *repositories.ListingRepository
	favoriteRepo    *repositories.FavoriteRepository
	userHandler     *handlers.UserHandler
	listingHandler  *handlers.ListingHandler
	favoriteHandler *handlers.FavoriteHandler
	eventManager    *ListingEventManager
}

func initializeApp(db *sql.DB, cache *redis.Client, fcm *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	listingRepo := repositories.ListingRepository{DB: db, Cache: cache}
	favoriteRepo := repositories.FavoriteRepository{DB: db}

	// Events channel feeds the websocket manager.
	eventManager := NewListingEventManager()

	notifier := notify.NewNotifier(fcm, &userRepo)

	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Printf("Token manager disabled: %v", err)
		tokenManager = nil
	}

	storage := utils.NewStorage(utils.StorageConfig{
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
	})

	// Services
	userService := &services.UserService{
		UserRepo:     &userRepo,
		TokenManager: tokenManager,
		SigningKey:   cfg.Auth.SigningKey,
	}
	listingService := &services.ListingService{ListingRepo: &listingRepo}
	favoriteService := &services.FavoriteService{FavoriteRepo: &favoriteRepo}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService, UserRepo: &userRepo, Storage: storage}
	listingHandler := &handlers.ListingHandler{
		Service:  listingService,
		Notifier: notifier,
		Events:   eventManager.broadcast,
	}
	favoriteHandler := &handlers.FavoriteHandler{
		Service:        favoriteService,
		ListingService: listingService,
		Notifier:       notifier,
		Events:         eventManager.broadcast,
	}

	return &application{
		cfg:             cfg,
		errorLog:        errorLog,
		infoLog:         infoLog,
		db:              db,
		userRepo:        &userRepo,
		listingRepo:     &listingRepo,
		favoriteRepo:    &favoriteRepo,
		userHandler:     userHandler,
		listingHandler:  listingHandler,
		favoriteHandler: favoriteHandler,
		eventManager:    eventManager,
	}
}
