// Package chat provides the REST API handler for the FAQ chatbot proxy.
package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	chatclient "github.com/gramseva/gram-seva-backend/internal/chat"
	prommetrics "github.com/gramseva/gram-seva-backend/internal/metrics"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// Completer interface for the chat completion provider.
type Completer interface {
	Complete(ctx context.Context, message string, history []chatclient.Message) (string, error)
}

// Handler handles chatbot API requests.
type Handler struct {
	client Completer
	log    *logger.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(client Completer, log *logger.Logger) *Handler {
	return &Handler{client: client, log: log}
}

type chatRequest struct {
	Message  string               `json:"message" binding:"required"`
	Messages []chatclient.Message `json:"messages"`
}

// Complete proxies one chatbot turn. Provider failures return the apology
// fallback with HTTP 200 so the widget keeps working.
// POST /api/chat.
func (h *Handler) Complete(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "message is required")
		return
	}

	start := time.Now()
	reply, err := h.client.Complete(c.Request.Context(), req.Message, req.Messages)
	prommetrics.ObserveChatLatency(time.Since(start).Seconds())

	if err != nil {
		h.log.Error().Err(err).Msg("Chat provider call failed")
		prommetrics.RecordChatRequest("error")
		c.JSON(http.StatusOK, gin.H{"reply": chatclient.FallbackReply})
		return
	}

	prommetrics.RecordChatRequest("ok")
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
