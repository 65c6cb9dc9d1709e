package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davide/collectarr/internal/domain"
	"github.com/davide/collectarr/internal/repository"
)

// WantedHandler exposes the wanted list over tracked media.
type WantedHandler struct {
	media *repository.MediaRepository
}

// NewWantedHandler creates a new wanted-list handler.
// Parameters:
//   - media: media repository.
// Returns:
//   - *WantedHandler: initialized handler.
func NewWantedHandler(media *repository.MediaRepository) *WantedHandler {
	return &WantedHandler{media: media}
}

// List handles GET /api/v1/wanted.
// Query parameters: media_type (optional filter), limit (optional cap).
func (h *WantedHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.media.ListWanted(c.Request.Context(), c.Query("media_type"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list wanted media: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

// MarkWanted handles POST /api/v1/media/:id/wanted.
func (h *WantedHandler) MarkWanted(c *gin.Context) {
	id := c.Param("id")
	if err := h.media.SetStatus(c.Request.Context(), id, domain.MediaStatusWanted); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to mark media as wanted: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
