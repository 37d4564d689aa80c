// Package locations provides REST API handlers for the location directory,
// contact management and admin statistics.
package locations

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// LocationRepository interface for directory operations.
type LocationRepository interface {
	Search(query string) ([]models.Location, error)
	GetByID(id string) (*models.Location, error)
	Upsert(name, locType string) (*models.Location, error)
	ListContacts(locationID string) ([]models.LocationContact, error)
	CreateContact(contact *models.LocationContact) error
	UpdateContact(contact *models.LocationContact) error
	DeleteContact(id string) error
}

// AssignmentRepository interface for the admin routing view.
type AssignmentRepository interface {
	List() ([]models.EmployeeAssignment, error)
}

// StatsProvider interface for complaint counts.
type StatsProvider interface {
	Stats() (map[string]int64, error)
}

// Handler handles location directory API requests.
type Handler struct {
	locationRepo   LocationRepository
	assignmentRepo AssignmentRepository
	stats          StatsProvider
	log            *logger.Logger
}

// NewHandler creates a new locations handler.
func NewHandler(locationRepo LocationRepository, assignmentRepo AssignmentRepository, stats StatsProvider, log *logger.Logger) *Handler {
	return &Handler{
		locationRepo:   locationRepo,
		assignmentRepo: assignmentRepo,
		stats:          stats,
		log:            log,
	}
}

// Search looks up directory locations by partial name.
// GET /api/locations?q=.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.errorResponse(c, http.StatusBadRequest, "q query parameter is required")
		return
	}

	locations, err := h.locationRepo.Search(query)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Failed to search locations")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to search locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"total":     len(locations),
	})
}

type upsertLocationRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// Upsert creates a directory location if it does not exist.
// POST /api/locations.
func (h *Handler) Upsert(c *gin.Context) {
	var req upsertLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "name and type are required")
		return
	}
	if req.Type != models.LocationTypeVillage && req.Type != models.LocationTypeCity {
		h.errorResponse(c, http.StatusBadRequest, "type must be village or city")
		return
	}

	location, err := h.locationRepo.Upsert(req.Name, req.Type)
	if err != nil {
		h.log.Error().Err(err).Str("name", req.Name).Msg("Failed to upsert location")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to save location")
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location})
}

// ListContacts returns the directory contacts for a location.
// GET /api/locations/:id/contacts.
func (h *Handler) ListContacts(c *gin.Context) {
	locationID := c.Param("id")
	if _, err := h.locationRepo.GetByID(locationID); err != nil {
		h.errorResponse(c, http.StatusNotFound, "Location not found")
		return
	}

	contacts, err := h.locationRepo.ListContacts(locationID)
	if err != nil {
		h.log.Error().Err(err).Str("location_id", locationID).Msg("Failed to list contacts")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list contacts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    len(contacts),
	})
}

type contactRequest struct {
	ContactName string `json:"contact_name" binding:"required"`
	Phone       string `json:"phone"`
}

// CreateContact adds a directory contact to a location.
// POST /api/locations/:id/contacts.
func (h *Handler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "contact_name is required")
		return
	}

	locationID := c.Param("id")
	if _, err := h.locationRepo.GetByID(locationID); err != nil {
		h.errorResponse(c, http.StatusNotFound, "Location not found")
		return
	}

	contact := &models.LocationContact{
		LocationID:  locationID,
		ContactName: req.ContactName,
		Phone:       req.Phone,
	}
	if err := h.locationRepo.CreateContact(contact); err != nil {
		h.log.Error().Err(err).Str("location_id", locationID).Msg("Failed to create contact")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

// UpdateContact edits a directory contact.
// PUT /api/locations/:id/contacts/:contactId.
func (h *Handler) UpdateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "contact_name is required")
		return
	}

	contact := &models.LocationContact{
		ID:          c.Param("contactId"),
		LocationID:  c.Param("id"),
		ContactName: req.ContactName,
		Phone:       req.Phone,
	}
	if err := h.locationRepo.UpdateContact(contact); err != nil {
		h.log.Error().Err(err).Str("contact_id", contact.ID).Msg("Failed to update contact")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// DeleteContact removes a directory contact.
// DELETE /api/locations/:id/contacts/:contactId.
func (h *Handler) DeleteContact(c *gin.Context) {
	if err := h.locationRepo.DeleteContact(c.Param("contactId")); err != nil {
		h.log.Error().Err(err).Str("contact_id", c.Param("contactId")).Msg("Failed to delete contact")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to delete contact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}

// ListAssignments returns every supervisor-to-location routing edge.
// GET /api/admin/assignments.
func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.assignmentRepo.List()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list assignments")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list assignments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// Stats returns complaint counts grouped by status.
// GET /api/admin/stats.
func (h *Handler) Stats(c *gin.Context) {
	counts, err := h.stats.Stats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute stats")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":       counts,
		"generated_at": time.Now().UTC(),
	})
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
