// Command refresh runs one catalog crawl pass and exits. Intended for
// cron-style scheduling next to the API server.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/davide/collectarr/internal/catalog"
	"github.com/davide/collectarr/internal/config"
	"github.com/davide/collectarr/internal/forum"
	"github.com/davide/collectarr/internal/logger"
	"github.com/davide/collectarr/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
		timeout    = flag.Duration("timeout", 30*time.Minute, "maximum run duration")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
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

	forumClient := forum.NewClient(&forum.ClientConfig{
		BaseURL:   cfg.Forum.BaseURL,
		Username:  cfg.Forum.Username,
		Password:  cfg.Forum.Password,
		UserAgent: cfg.Forum.UserAgent,
		Timeout:   cfg.Forum.Timeout,
	})
	store := catalog.NewStore(cfg.Forum.CachePath, log)
	coordinator := catalog.NewCoordinator(repository.NewSourceRepository(db), forumClient, store, log)

	coordinator.Start()

	deadline := time.Now().Add(*timeout)
	for {
		state := coordinator.Status()
		if !state.Running {
			if state.Error != "" {
				log.WithField("error", state.Error).Fatal("Refresh failed")
			}
			log.WithFields(logger.Fields{
				"items":     state.ItemsCount,
				"sources":   state.ProcessedSources,
				"cancelled": state.Cancelled,
			}).Info("Refresh finished")
			return
		}
		if time.Now().After(deadline) {
			coordinator.Cancel()
			log.Fatalf("Refresh timed out after %s", *timeout)
		}
		time.Sleep(500 * time.Millisecond)
	}
}
