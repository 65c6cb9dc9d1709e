package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/davide/collectarr/internal/domain"
	"github.com/davide/collectarr/internal/forum"
	"github.com/davide/collectarr/internal/logger"
)

// SourceProvider supplies the ordered list of sources to crawl.
type SourceProvider interface {
	ListEnabled(ctx context.Context) ([]domain.ListSource, error)
}

// PageFetcher fetches raw list pages, optionally behind a board login.
type PageFetcher interface {
	Login(ctx context.Context) error
	FetchPage(ctx context.Context, url string) (string, error)
	BaseURL() string
}

// Coordinator owns the single in-process refresh run: it crawls all
// configured sources on a background goroutine, folds parsed items
// through the merge map and publishes the result to the cache store
// only when the run finishes without cancellation.
type Coordinator struct {
	mu     sync.Mutex
	state  domain.RefreshState
	cancel *atomic.Bool

	sources SourceProvider
	fetcher PageFetcher
	store   *Store
	log     *logger.Logger
}

// NewCoordinator creates a refresh coordinator.
func NewCoordinator(sources SourceProvider, fetcher PageFetcher, store *Store, log *logger.Logger) *Coordinator {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Coordinator{
		sources: sources,
		fetcher: fetcher,
		store:   store,
		log:     log.WithField(logger.FieldComponent, "refresh"),
	}
}

// Start launches a refresh run and returns immediately with the current
// state. If a run is already active this is a no-op returning that
// run's state.
func (c *Coordinator) Start() domain.RefreshState {
	c.mu.Lock()
	if c.state.Running {
		state := c.state
		c.mu.Unlock()
		return state
	}

	now := time.Now().UTC()
	c.state = domain.RefreshState{
		Running:   true,
		StartedAt: &now,
	}
	cancelled := &atomic.Bool{}
	c.cancel = cancelled
	state := c.state
	c.mu.Unlock()

	go c.run(cancelled)
	return state
}

// Cancel requests cooperative cancellation of the active run and
// returns the current state. The flag is checked at source boundaries,
// so latency is bounded by one fetch timeout.
func (c *Coordinator) Cancel() domain.RefreshState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Running && c.cancel != nil {
		c.cancel.Store(true)
		c.state.Cancelled = true
	}
	return c.state
}

// Status returns a copy of the current refresh state.
func (c *Coordinator) Status() domain.RefreshState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) run(cancelled *atomic.Bool) {
	ctx := logger.WithField(context.Background(), logger.FieldRefreshID, uuid.New().String())
	log := logger.FromContext(ctx).WithField(logger.FieldComponent, "refresh")

	if err := c.fetcher.Login(ctx); err != nil {
		// Anonymous crawling still yields public listings.
		log.WithError(err).Warn("Board login failed, continuing without session")
	}

	sources, err := c.sources.ListEnabled(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load crawl sources")
		c.mu.Lock()
		c.state.Running = false
		c.state.Error = err.Error()
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.state.TotalSources = len(sources)
	c.mu.Unlock()

	log.WithField(logger.FieldCount, len(sources)).Info("Catalog refresh started")

	merged := make(map[string]domain.CatalogItem)
	for _, src := range sources {
		if cancelled.Load() {
			c.markCancelled(log)
			return
		}

		c.mu.Lock()
		c.state.CurrentSource = src.Name
		c.mu.Unlock()

		html, err := c.fetcher.FetchPage(ctx, src.URL)
		if err != nil {
			log.WithField(logger.FieldSource, src.Name).WithError(err).Warn("Source fetch failed, skipping")
			c.mu.Lock()
			c.state.ProcessedSources++
			c.mu.Unlock()
			continue
		}

		items := forum.ParseListPage(html, src, c.fetcher.BaseURL())
		for _, item := range items {
			MergeInto(merged, item)
		}

		c.mu.Lock()
		c.state.ProcessedSources++
		c.state.ItemsCount = len(merged)
		c.mu.Unlock()
	}

	if cancelled.Load() {
		c.markCancelled(log)
		return
	}

	c.store.Replace(merged, len(sources))

	now := time.Now().UTC()
	c.mu.Lock()
	c.state.Running = false
	c.state.UpdatedAt = &now
	c.state.ItemsCount = len(merged)
	c.mu.Unlock()

	log.WithFields(logger.Fields{
		logger.FieldCount:      len(merged),
		logger.FieldDurationMs: time.Since(*c.Status().StartedAt).Milliseconds(),
	}).Info("Catalog refresh completed")
}

// markCancelled terminates the run without touching the cache store.
func (c *Coordinator) markCancelled(log *logger.Logger) {
	c.mu.Lock()
	c.state.Cancelled = true
	c.state.Running = false
	c.mu.Unlock()
	log.Info("Catalog refresh cancelled")
}
