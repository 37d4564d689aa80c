//nolint:noctx // Test file uses http.NewRequest for simplicity
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	chatclient "github.com/gramseva/gram-seva-backend/internal/chat"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

type mockCompleter struct {
	reply string
	err   error
}

func (m *mockCompleter) Complete(ctx context.Context, message string, history []chatclient.Message) (string, error) {
	return m.reply, m.err
}

func setupRouter(completer *mockCompleter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(completer, logger.New("debug", "text", "stdout"))

	router := gin.New()
	router.POST("/api/chat", handler.Complete)
	return router
}

func TestComplete_Success(t *testing.T) {
	router := setupRouter(&mockCompleter{reply: "You can file a complaint from the home screen."})

	body, _ := json.Marshal(map[string]interface{}{
		"message": "How do I register a complaint?",
		"messages": []map[string]string{
			{"role": "user", "content": "Hi"},
			{"role": "assistant", "content": "Hello!"},
		},
	})
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "You can file a complaint from the home screen.", response["reply"])
}

func TestComplete_ProviderErrorReturnsFallback(t *testing.T) {
	router := setupRouter(&mockCompleter{err: errors.New("provider down")})

	body, _ := json.Marshal(map[string]string{"message": "Hello"})
	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, chatclient.FallbackReply, response["reply"])
}

func TestComplete_MissingMessage(t *testing.T) {
	router := setupRouter(&mockCompleter{})

	req, _ := http.NewRequest("POST", "/api/chat", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
