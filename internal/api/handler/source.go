package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/davide/collectarr/internal/domain"
	"github.com/davide/collectarr/internal/repository"
)

// SourceHandler exposes CRUD over crawl source configuration.
type SourceHandler struct {
	sources *repository.SourceRepository
}

// NewSourceHandler creates a new source handler.
// Parameters:
//   - sources: source repository.
// Returns:
//   - *SourceHandler: initialized handler.
func NewSourceHandler(sources *repository.SourceRepository) *SourceHandler {
	return &SourceHandler{sources: sources}
}

type sourceRequest struct {
	Name      string `json:"name" binding:"required"`
	URL       string `json:"url" binding:"required"`
	MediaType string `json:"media_type" binding:"required"`
	Category  string `json:"category"`
	Quality   string `json:"quality"`
	Language  string `json:"language"`
	Enabled   *bool  `json:"enabled"`
}

// List handles GET /api/v1/sources.
// The include_disabled query parameter includes disabled sources.
func (h *SourceHandler) List(c *gin.Context) {
	includeDisabled := c.Query("include_disabled") == "true"
	sources, err := h.sources.List(c.Request.Context(), includeDisabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list sources: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sources": sources,
		"total":   len(sources),
	})
}

// Create handles POST /api/v1/sources.
func (h *SourceHandler) Create(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	src := domain.ListSource{
		Name:      req.Name,
		URL:       req.URL,
		MediaType: req.MediaType,
		Category:  req.Category,
		Quality:   req.Quality,
		Language:  req.Language,
		Enabled:   req.Enabled == nil || *req.Enabled,
	}
	if err := h.sources.Create(c.Request.Context(), &src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create source: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, src)
}

// Update handles PUT /api/v1/sources/:id.
func (h *SourceHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source id"})
		return
	}

	src, err := h.sources.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load source: " + err.Error(),
		})
		return
	}

	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	src.Name = req.Name
	src.URL = req.URL
	src.MediaType = req.MediaType
	src.Category = req.Category
	src.Quality = req.Quality
	src.Language = req.Language
	if req.Enabled != nil {
		src.Enabled = *req.Enabled
	}

	if err := h.sources.Update(c.Request.Context(), src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update source: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, src)
}

// Delete handles DELETE /api/v1/sources/:id.
func (h *SourceHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source id"})
		return
	}
	if err := h.sources.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete source: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
