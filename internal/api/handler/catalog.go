package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davide/collectarr/internal/catalog"
	"github.com/davide/collectarr/internal/forum"
)

// CatalogHandler exposes the refresh, cache and search endpoints.
type CatalogHandler struct {
	coordinator *catalog.Coordinator
	store       *catalog.Store
	index       *catalog.Index
	forumClient *forum.Client
	maxResults  int
}

// NewCatalogHandler creates a new catalog handler.
// Parameters:
//   - coordinator: refresh coordinator.
//   - store: cache store.
//   - index: search index over the store.
//   - forumClient: board client used for release pages and connection tests.
//   - maxResults: default search result cap.
// Returns:
//   - *CatalogHandler: initialized handler.
func NewCatalogHandler(
	coordinator *catalog.Coordinator,
	store *catalog.Store,
	index *catalog.Index,
	forumClient *forum.Client,
	maxResults int,
) *CatalogHandler {
	if maxResults <= 0 {
		maxResults = 200
	}
	return &CatalogHandler{
		coordinator: coordinator,
		store:       store,
		index:       index,
		forumClient: forumClient,
		maxResults:  maxResults,
	}
}

// StartRefresh handles POST /api/v1/catalog/refresh.
// Starting while a run is active returns that run's state.
func (h *CatalogHandler) StartRefresh(c *gin.Context) {
	state := h.coordinator.Start()
	c.JSON(http.StatusAccepted, gin.H{"ok": true, "refresh": state})
}

// CancelRefresh handles DELETE /api/v1/catalog/refresh.
func (h *CatalogHandler) CancelRefresh(c *gin.Context) {
	state := h.coordinator.Cancel()
	c.JSON(http.StatusOK, gin.H{"ok": true, "refresh": state})
}

// RefreshStatus handles GET /api/v1/catalog/refresh.
func (h *CatalogHandler) RefreshStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.Status())
}

// CacheStatus handles GET /api/v1/catalog/cache.
func (h *CatalogHandler) CacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Status())
}

// Search handles GET /api/v1/catalog/search.
// Query parameters: q (required), max (optional result cap).
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'q' is required",
		})
		return
	}

	maxResults := h.maxResults
	if raw := c.Query("max"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}

	items := h.index.Search(query, maxResults)
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

// ReleaseLinks handles GET /api/v1/catalog/release.
// Fetches the detail page at the url query parameter and extracts its
// ed2k links.
func (h *CatalogHandler) ReleaseLinks(c *gin.Context) {
	detailURL := c.Query("url")
	if detailURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'url' is required",
		})
		return
	}

	html, err := h.forumClient.FetchPage(c.Request.Context(), detailURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch release page: " + err.Error(),
		})
		return
	}

	rawLinks := forum.ExtractEd2kLinks(html)
	links := make([]forum.Ed2kLink, 0, len(rawLinks))
	for _, raw := range rawLinks {
		links = append(links, forum.ParseEd2kLink(raw))
	}

	c.JSON(http.StatusOK, gin.H{
		"ed2k_links": rawLinks,
		"ed2k_items": links,
		"ed2k_stats": forum.ComputeEd2kStats(links),
		"base_url":   h.forumClient.BaseURL(),
	})
}

// TestConnection handles POST /api/v1/catalog/test-connection.
func (h *CatalogHandler) TestConnection(c *gin.Context) {
	ok, message := h.forumClient.TestConnection(c.Request.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"ok": ok, "message": message})
}
