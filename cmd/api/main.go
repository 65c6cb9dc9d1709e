package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davide/collectarr/internal/api"
	"github.com/davide/collectarr/internal/api/middleware"
	"github.com/davide/collectarr/internal/arr"
	"github.com/davide/collectarr/internal/catalog"
	"github.com/davide/collectarr/internal/config"
	"github.com/davide/collectarr/internal/forum"
	"github.com/davide/collectarr/internal/logger"
	"github.com/davide/collectarr/internal/reconcile"
	"github.com/davide/collectarr/internal/repository"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	logger.SetDefault(logger.NewDefault())
	defer logger.Sync()
	log := logger.GetDefault()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	sourceRepo := repository.NewSourceRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	forumClient := forum.NewClient(&forum.ClientConfig{
		BaseURL:   cfg.Forum.BaseURL,
		Username:  cfg.Forum.Username,
		Password:  cfg.Forum.Password,
		UserAgent: cfg.Forum.UserAgent,
		Timeout:   cfg.Forum.Timeout,
	})

	store := catalog.NewStore(cfg.Forum.CachePath, log)
	index := catalog.NewIndex(store, cfg.Search.MinScore)
	coordinator := catalog.NewCoordinator(sourceRepo, forumClient, store, log)

	radarr := arr.NewRadarr(&arr.Config{
		URL:     cfg.Radarr.URL,
		APIKey:  cfg.Radarr.APIKey,
		Timeout: cfg.Radarr.Timeout,
	})
	sonarr := arr.NewSonarr(&arr.Config{
		URL:     cfg.Sonarr.URL,
		APIKey:  cfg.Sonarr.APIKey,
		Timeout: cfg.Sonarr.Timeout,
	})
	reconcileService := reconcile.NewService(radarr, sonarr, log)

	router := api.SetupRouter(&api.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		Coordinator: coordinator,
		Store:       store,
		Index:       index,
		ForumClient: forumClient,
		Sources:     sourceRepo,
		Media:       mediaRepo,
		Reconcile:   reconcileService,
		MaxResults:  cfg.Search.MaxResults,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("Server stopped")
}
