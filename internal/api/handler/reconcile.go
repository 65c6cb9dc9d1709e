package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davide/collectarr/internal/arr"
	"github.com/davide/collectarr/internal/reconcile"
)

// ReconcileHandler exposes title/year reconciliation against Radarr and Sonarr.
type ReconcileHandler struct {
	service *reconcile.Service
}

// NewReconcileHandler creates a new reconcile handler.
// Parameters:
//   - service: reconciliation service.
// Returns:
//   - *ReconcileHandler: initialized handler.
func NewReconcileHandler(service *reconcile.Service) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

type reconcileRequest struct {
	Title string `json:"title" binding:"required"`
	Year  int    `json:"year"`
}

// Movie handles POST /api/v1/reconcile/movie.
// Returns the best Radarr candidate with its confidence classification,
// or a null match when no candidate shares any similarity.
func (h *ReconcileHandler) Movie(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.service.MatchMovie(c.Request.Context(), req.Title, req.Year)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": result})
}

// Series handles POST /api/v1/reconcile/series.
func (h *ReconcileHandler) Series(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.service.MatchSeries(c.Request.Context(), req.Title, req.Year)
	if err != nil {
		h.writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": result})
}

func (h *ReconcileHandler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, arr.ErrNotConfigured) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error": "Upstream lookup failed: " + err.Error(),
	})
}
