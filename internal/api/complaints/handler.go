// Package complaints provides REST API handlers for complaint submission,
// tracking, status updates, comments and feedback.
package complaints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/gram-seva-backend/internal/api/middleware"
	"github.com/gramseva/gram-seva-backend/internal/models"
	complaintservice "github.com/gramseva/gram-seva-backend/internal/service/complaints"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// ComplaintService interface for complaint operations.
type ComplaintService interface {
	Submit(input complaintservice.SubmitInput) (*models.Complaint, error)
	Get(id string) (*models.Complaint, error)
	ListByPhone(phone string) ([]models.Complaint, error)
	ListForOfficial(actor *models.User, status string) ([]models.Complaint, error)
	UpdateStatus(complaintID, newStatus string, actor *models.User) (*models.Complaint, error)
	AddComment(complaintID, text string, actor *models.User) (*models.ComplaintComment, error)
	ListComments(complaintID string) ([]models.ComplaintComment, error)
	FeedbackExists(complaintID string) (bool, error)
	SubmitFeedback(complaintID string, rating int, comments string) (*models.SupervisorFeedback, error)
}

// NotificationLister interface for officer notification reads.
type NotificationLister interface {
	ListNotifications(recipientID string) ([]models.ComplaintNotification, error)
}

// Handler handles complaint API requests.
type Handler struct {
	complaintService ComplaintService
	notifications    NotificationLister
	log              *logger.Logger
}

// NewHandler creates a new complaint handler.
func NewHandler(complaintService ComplaintService, notifications NotificationLister, log *logger.Logger) *Handler {
	return &Handler{
		complaintService: complaintService,
		notifications:    notifications,
		log:              log,
	}
}

type createComplaintRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone" binding:"required"`
	LocationName  string `json:"location_name"`
	AreaType      string `json:"area_type"`
	Category      string `json:"category" binding:"required"`
	Description   string `json:"description"`
	VoiceMessage  string `json:"voice_message"`
	VoiceDuration int    `json:"voice_duration"`
}

// Create submits a new complaint. Anonymous submission is allowed; the phone
// identifies the citizen.
// POST /api/complaints.
func (h *Handler) Create(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "phone and category are required")
		return
	}

	complaint, err := h.complaintService.Submit(complaintservice.SubmitInput{
		Name:          req.Name,
		Phone:         req.Phone,
		LocationName:  req.LocationName,
		AreaType:      req.AreaType,
		Category:      req.Category,
		Description:   req.Description,
		VoiceMessage:  req.VoiceMessage,
		VoiceDuration: req.VoiceDuration,
	})
	if err != nil {
		if isValidationError(err) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to submit complaint")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to submit complaint")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"complaint": complaint})
}

// Get returns one complaint for tracking.
// GET /api/complaints/:id.
func (h *Handler) Get(c *gin.Context) {
	complaint, err := h.complaintService.Get(c.Param("id"))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

// ListByPhone returns a citizen's complaints.
// GET /api/complaints?phone=.
func (h *Handler) ListByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		h.errorResponse(c, http.StatusBadRequest, "phone query parameter is required")
		return
	}

	complaints, err := h.complaintService.ListByPhone(phone)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list complaints")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list complaints")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"total":      len(complaints),
	})
}

// Categories returns the fixed complaint category list.
// GET /api/complaints/categories.
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.ComplaintCategories})
}

// ListForOfficer returns the caller's worklist.
// GET /api/officer/complaints?status=.
func (h *Handler) ListForOfficer(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	complaints, err := h.complaintService.ListForOfficial(actor, c.Query("status"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list officer complaints")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list complaints")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"total":      len(complaints),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus transitions a complaint's status.
// PATCH /api/complaints/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "status is required")
		return
	}

	actor := middleware.CurrentUser(c)
	complaint, err := h.complaintService.UpdateStatus(c.Param("id"), req.Status, actor)
	if err != nil {
		switch {
		case errors.Is(err, complaintservice.ErrNotAuthorized):
			h.errorResponse(c, http.StatusForbidden, err.Error())
		case errors.Is(err, complaintservice.ErrInvalidStatus):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Str("complaint_id", c.Param("id")).Msg("Failed to update status")
			h.errorResponse(c, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

type addCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// AddComment records an officer remark.
// POST /api/complaints/:id/comments.
func (h *Handler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "comment is required")
		return
	}

	actor := middleware.CurrentUser(c)
	comment, err := h.complaintService.AddComment(c.Param("id"), req.Comment, actor)
	if err != nil {
		if errors.Is(err, complaintservice.ErrNotAuthorized) {
			h.errorResponse(c, http.StatusForbidden, err.Error())
			return
		}
		h.log.Error().Err(err).Str("complaint_id", c.Param("id")).Msg("Failed to add comment")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments returns the remarks on a complaint.
// GET /api/complaints/:id/comments.
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.complaintService.ListComments(c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Str("complaint_id", c.Param("id")).Msg("Failed to list comments")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"total":    len(comments),
	})
}

// FeedbackExists reports whether feedback was already left, so the UI can
// hide the form.
// GET /api/complaints/:id/feedback.
func (h *Handler) FeedbackExists(c *gin.Context) {
	exists, err := h.complaintService.FeedbackExists(c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Str("complaint_id", c.Param("id")).Msg("Failed to check feedback")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to check feedback")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

type submitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

// SubmitFeedback records the one-time supervisor rating.
// POST /api/complaints/:id/feedback.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "rating is required")
		return
	}

	feedback, err := h.complaintService.SubmitFeedback(c.Param("id"), req.Rating, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, complaintservice.ErrFeedbackExists):
			h.errorResponse(c, http.StatusConflict, err.Error())
		case errors.Is(err, complaintservice.ErrInvalidRating),
			errors.Is(err, complaintservice.ErrNotResolved),
			errors.Is(err, complaintservice.ErrNoSupervisor):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Str("complaint_id", c.Param("id")).Msg("Failed to submit feedback")
			h.errorResponse(c, http.StatusInternalServerError, "Failed to submit feedback")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

// ListNotifications returns the caller's in-app notifications.
// GET /api/officer/notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	notifications, err := h.notifications.ListNotifications(actor.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list notifications")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// isValidationError reports whether the submit error is caller-caused.
func isValidationError(err error) bool {
	return errors.Is(err, complaintservice.ErrMissingPhone) ||
		errors.Is(err, complaintservice.ErrMissingCategory) ||
		errors.Is(err, complaintservice.ErrUnknownCategory) ||
		errors.Is(err, complaintservice.ErrMissingDescription)
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
