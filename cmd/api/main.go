package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taara-rescue/internal/adapters/auth/jwtauth"
	"taara-rescue/internal/adapters/geocoding/nominatim"
	mongostore "taara-rescue/internal/adapters/storage/mongo"
	"taara-rescue/internal/config"
	"taara-rescue/internal/platform/httpclient"
	"taara-rescue/internal/platform/logging"
	"taara-rescue/internal/ports/geocoding"
	"taara-rescue/internal/router"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	_ "taara-rescue/docs"
)

// @title        TAARA Rescue API
// @version      1.0
// @description  Public intake and admin panel API for the animal rescue shelter.
// @BasePath     /
func main() {
	_ = godotenv.Load() // .env opcional; en prod todo viene del entorno

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	var db *mongo.Database
	if cfg.MongoURI != "" {
		opened, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("mongo connect")
		}
		if err := mongostore.EnsureIndexes(ctx, opened); err != nil {
			logger.Fatal().Err(err).Msg("mongo indexes")
		}
		db = opened
		logger.Info().Str("db", cfg.MongoDB).Msg("using mongodb storage")
	} else {
		logger.Warn().Msg("MONGODB_URI not set, using in-memory storage")
	}

	var geocoder geocoding.Geocoder
	if hc, err := httpclient.NewWithBaseURL(cfg.GeocoderBaseURL, httpclient.DefaultTimeout); err == nil {
		geocoder = nominatim.New(hc)
	} else {
		logger.Warn().Err(err).Msg("geocoder disabled")
	}

	tokens := jwtauth.New(cfg.JWTSecret, cfg.TokenTTL)

	handler := router.NewRouter(router.Options{
		Cfg:      cfg,
		Logger:   logger,
		DB:       db,
		Verifier: tokens,
		Issuer:   tokens,
		Geocoder: geocoder,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("server stopped")
}
