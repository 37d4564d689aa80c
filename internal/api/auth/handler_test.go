//nolint:noctx // Test file uses http.NewRequest for simplicity
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gramseva/gram-seva-backend/internal/models"
	authservice "github.com/gramseva/gram-seva-backend/internal/service/auth"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// Mock Auth Service
type mockAuthService struct {
	requestErr error
	verifyErr  error
	user       *models.User
}

func (m *mockAuthService) RequestOTP(ctx context.Context, phone string) error {
	return m.requestErr
}

func (m *mockAuthService) VerifyOTP(ctx context.Context, phone, otp, name string) (string, *models.User, error) {
	if m.verifyErr != nil {
		return "", nil, m.verifyErr
	}
	return "signed-token", m.user, nil
}

func setupRouter(service *mockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandlerWithInterfaces(service, logger.New("debug", "text", "stdout"))

	router := gin.New()
	router.POST("/api/auth/otp/request", handler.RequestOTP)
	router.POST("/api/auth/otp/verify", handler.VerifyOTP)
	return router
}

func TestRequestOTP_Success(t *testing.T) {
	router := setupRouter(&mockAuthService{})

	body, _ := json.Marshal(map[string]string{"phone": "9876543210"})
	req, _ := http.NewRequest("POST", "/api/auth/otp/request", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestOTP_InvalidPhone(t *testing.T) {
	router := setupRouter(&mockAuthService{requestErr: authservice.ErrInvalidPhone})

	body, _ := json.Marshal(map[string]string{"phone": "12345"})
	req, _ := http.NewRequest("POST", "/api/auth/otp/request", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestOTP_MissingPhone(t *testing.T) {
	router := setupRouter(&mockAuthService{})

	req, _ := http.NewRequest("POST", "/api/auth/otp/request", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyOTP_Success(t *testing.T) {
	router := setupRouter(&mockAuthService{
		user: &models.User{ID: "user-1", Phone: "9876543210", Role: models.RoleCitizen},
	})

	body, _ := json.Marshal(map[string]string{"phone": "9876543210", "otp": "123456"})
	req, _ := http.NewRequest("POST", "/api/auth/otp/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "signed-token", response["token"])

	user, ok := response["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "citizen", user["role"])
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	router := setupRouter(&mockAuthService{verifyErr: authservice.ErrInvalidOTP})

	body, _ := json.Marshal(map[string]string{"phone": "9876543210", "otp": "000000"})
	req, _ := http.NewRequest("POST", "/api/auth/otp/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
