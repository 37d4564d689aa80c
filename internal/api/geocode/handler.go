// Package geocode provides the REST API handler for reverse geocoding, used
// by the complaint form's "use my location" button.
package geocode

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/gram-seva-backend/internal/geo"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// Reverser interface for the reverse-geocoding provider.
type Reverser interface {
	Reverse(ctx context.Context, lat, lon float64) (*geo.Address, error)
}

// Handler handles reverse-geocoding API requests.
type Handler struct {
	client Reverser
	log    *logger.Logger
}

// NewHandler creates a new geocode handler.
func NewHandler(client Reverser, log *logger.Logger) *Handler {
	return &Handler{client: client, log: log}
}

// Reverse resolves coordinates to a display name and an area classification.
// GET /api/geocode/reverse?lat=&lon=.
func (h *Handler) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "lon must be a number")
		return
	}

	address, err := h.client.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		h.log.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("Reverse geocoding failed")
		h.errorResponse(c, http.StatusBadGateway, "Failed to resolve location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"display_name": address.DisplayName,
		"address":      address,
		"area_type":    geo.ClassifyArea(*address),
	})
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
