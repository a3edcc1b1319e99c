package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/archub/portfolio/internal/config"
	"github.com/archub/portfolio/internal/middleware"
	"github.com/archub/portfolio/internal/rest"
	"github.com/archub/portfolio/portfolio/application"
	"github.com/archub/portfolio/portfolio/media"
	"github.com/archub/portfolio/portfolio/persistence"
	"github.com/archub/portfolio/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.DatabasePath})
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	sandbox, err := media.NewSandbox(cfg.UploadRoot)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload root")
	}
	store := media.NewStore(sandbox, cfg.AllowedExtensions, cfg.MaxUploadBytes)

	sqlDB := database.DB()
	projectRepo := persistence.NewProjectRepository(sqlDB)
	likeRepo := persistence.NewLikeRepository(sqlDB)
	carouselRepo := persistence.NewCarouselRepository(sqlDB)
	userRepo := persistence.NewUserRepository(sqlDB)
	contactRepo := persistence.NewContactRepository(sqlDB)

	catalogueService := application.NewCatalogueService(sqlDB, projectRepo, store)
	likeService := application.NewLikeService(likeRepo, projectRepo)
	carouselService := application.NewCarouselService(sqlDB, carouselRepo, store)
	accountService := application.NewAccountService(userRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	// Stored references resolve directly against the upload root.
	router.Static("/"+media.URLPrefix, sandbox.Root())

	rest.NewApi(router, catalogueService, likeService, carouselService, accountService, contactRepo, cfg.TokenSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
