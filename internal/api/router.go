package api

import (
	"github.com/gin-gonic/gin"

	"github.com/davide/collectarr/internal/api/handler"
	"github.com/davide/collectarr/internal/api/middleware"
	"github.com/davide/collectarr/internal/catalog"
	"github.com/davide/collectarr/internal/forum"
	"github.com/davide/collectarr/internal/reconcile"
	"github.com/davide/collectarr/internal/repository"
)

// RouterConfig bundles the collaborators the route layer needs.
type RouterConfig struct {
	Mode        string
	CORS        middleware.CORSConfig
	Coordinator *catalog.Coordinator
	Store       *catalog.Store
	Index       *catalog.Index
	ForumClient *forum.Client
	Sources     *repository.SourceRepository
	Media       *repository.MediaRepository
	Reconcile   *reconcile.Service
	MaxResults  int
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(cfg *RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler()
	catalogHandler := handler.NewCatalogHandler(cfg.Coordinator, cfg.Store, cfg.Index, cfg.ForumClient, cfg.MaxResults)
	sourceHandler := handler.NewSourceHandler(cfg.Sources)
	wantedHandler := handler.NewWantedHandler(cfg.Media)
	reconcileHandler := handler.NewReconcileHandler(cfg.Reconcile)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		// Catalog crawl and search
		v1.POST("/catalog/refresh", catalogHandler.StartRefresh)
		v1.DELETE("/catalog/refresh", catalogHandler.CancelRefresh)
		v1.GET("/catalog/refresh", catalogHandler.RefreshStatus)
		v1.GET("/catalog/cache", catalogHandler.CacheStatus)
		v1.GET("/catalog/search", catalogHandler.Search)
		v1.GET("/catalog/release", catalogHandler.ReleaseLinks)
		v1.POST("/catalog/test-connection", catalogHandler.TestConnection)

		// Crawl sources
		v1.GET("/sources", sourceHandler.List)
		v1.POST("/sources", sourceHandler.Create)
		v1.PUT("/sources/:id", sourceHandler.Update)
		v1.DELETE("/sources/:id", sourceHandler.Delete)

		// Tracked media
		v1.GET("/wanted", wantedHandler.List)
		v1.POST("/media/:id/wanted", wantedHandler.MarkWanted)

		// Reconciliation
		v1.POST("/reconcile/movie", reconcileHandler.Movie)
		v1.POST("/reconcile/series", reconcileHandler.Series)
	}

	return r
}
