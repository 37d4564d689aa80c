// Package api assembles the gin router from the per-area handlers.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authapi "github.com/gramseva/gram-seva-backend/internal/api/auth"
	chatapi "github.com/gramseva/gram-seva-backend/internal/api/chat"
	complaintsapi "github.com/gramseva/gram-seva-backend/internal/api/complaints"
	geocodeapi "github.com/gramseva/gram-seva-backend/internal/api/geocode"
	locationsapi "github.com/gramseva/gram-seva-backend/internal/api/locations"
	"github.com/gramseva/gram-seva-backend/internal/api/middleware"
	"github.com/gramseva/gram-seva-backend/internal/models"
)

// Handlers carries the per-area handlers the router mounts.
type Handlers struct {
	Auth       *authapi.Handler
	Complaints *complaintsapi.Handler
	Locations  *locationsapi.Handler
	Chat       *chatapi.Handler
	Geocode    *geocodeapi.Handler
}

// HealthChecker reports backend dependency health.
type HealthChecker interface {
	Health() error
}

// NewRouter builds the gin engine with all routes and role gates.
func NewRouter(handlers Handlers, tokenParser middleware.TokenParser, health HealthChecker) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		if err := health.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	{
		public.POST("/auth/otp/request", handlers.Auth.RequestOTP)
		public.POST("/auth/otp/verify", handlers.Auth.VerifyOTP)

		public.POST("/complaints", handlers.Complaints.Create)
		public.GET("/complaints", handlers.Complaints.ListByPhone)
		public.GET("/complaints/categories", handlers.Complaints.Categories)
		public.GET("/complaints/:id", handlers.Complaints.Get)
		public.GET("/complaints/:id/comments", handlers.Complaints.ListComments)
		public.GET("/complaints/:id/feedback", handlers.Complaints.FeedbackExists)
		public.POST("/complaints/:id/feedback", handlers.Complaints.SubmitFeedback)

		public.GET("/locations", handlers.Locations.Search)
		public.GET("/locations/:id/contacts", handlers.Locations.ListContacts)

		public.POST("/chat", handlers.Chat.Complete)
		public.GET("/geocode/reverse", handlers.Geocode.Reverse)
	}

	official := router.Group("/api",
		middleware.RequireAuth(tokenParser),
		middleware.RequireRole(models.RoleEmployee, models.RoleAdmin),
	)
	{
		official.GET("/officer/complaints", handlers.Complaints.ListForOfficer)
		official.GET("/officer/notifications", handlers.Complaints.ListNotifications)
		official.PATCH("/complaints/:id/status", handlers.Complaints.UpdateStatus)
		official.POST("/complaints/:id/comments", handlers.Complaints.AddComment)
	}

	admin := router.Group("/api",
		middleware.RequireAuth(tokenParser),
		middleware.RequireRole(models.RoleAdmin),
	)
	{
		admin.POST("/locations", handlers.Locations.Upsert)
		admin.POST("/locations/:id/contacts", handlers.Locations.CreateContact)
		admin.PUT("/locations/:id/contacts/:contactId", handlers.Locations.UpdateContact)
		admin.DELETE("/locations/:id/contacts/:contactId", handlers.Locations.DeleteContact)
		admin.GET("/admin/assignments", handlers.Locations.ListAssignments)
		admin.GET("/admin/stats", handlers.Locations.Stats)
	}

	return router
}
