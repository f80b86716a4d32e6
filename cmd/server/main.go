package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dfryer1193/gitpix/imagestore/application"
	"github.com/dfryer1193/gitpix/internal/config"
	"github.com/dfryer1193/gitpix/internal/middleware"
	"github.com/dfryer1193/gitpix/internal/rest"
	gh "github.com/dfryer1193/gitpix/shared/github"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v75/github"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ghClient := github.NewClient(nil).WithAuthToken(cfg.GithubToken)
	gateway := gh.NewGithubContentGateway(ghClient, nil, cfg.RepoOwner, cfg.RepoName)

	store := application.NewStore(gateway, cfg.ImageFolder)
	ingress := application.NewIngress(nil)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, rest.NewImagesHandler(store, ingress))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().
			Int("port", cfg.Port).
			Str("repo", cfg.RepoOwner+"/"+cfg.RepoName).
			Str("folder", cfg.ImageFolder).
			Msg("Starting server")
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
