// Package auth provides REST API handlers for phone+OTP login.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/gram-seva-backend/internal/models"
	authservice "github.com/gramseva/gram-seva-backend/internal/service/auth"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// AuthService interface for login operations.
type AuthService interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, otp, name string) (string, *models.User, error)
}

// Handler handles auth API requests.
type Handler struct {
	authService AuthService
	log         *logger.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(authService *authservice.Service, log *logger.Logger) *Handler {
	return &Handler{authService: authService, log: log}
}

// NewHandlerWithInterfaces creates a new auth handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(authService AuthService, log *logger.Logger) *Handler {
	return &Handler{authService: authService, log: log}
}

type requestOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// RequestOTP issues an OTP for the phone.
// POST /api/auth/otp/request.
func (h *Handler) RequestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "phone is required")
		return
	}

	if err := h.authService.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, authservice.ErrInvalidPhone) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to issue OTP")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
	Name  string `json:"name"`
}

// VerifyOTP checks the OTP and returns a session token with the user.
// POST /api/auth/otp/verify.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "phone and otp are required")
		return
	}

	token, user, err := h.authService.VerifyOTP(c.Request.Context(), req.Phone, req.OTP, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrInvalidPhone):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, authservice.ErrInvalidOTP):
			h.errorResponse(c, http.StatusUnauthorized, err.Error())
		default:
			h.log.Error().Err(err).Msg("Failed to verify OTP")
			h.errorResponse(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
