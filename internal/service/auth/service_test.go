package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gramseva/gram-seva-backend/internal/cache"
	"github.com/gramseva/gram-seva-backend/internal/config"
	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// Mock repositories for testing
type mockUserRepository struct {
	usersByPhone map[string]*models.User
	nextID       int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{usersByPhone: make(map[string]*models.User)}
}

func (m *mockUserRepository) GetByPhone(phone string) (*models.User, error) {
	return m.usersByPhone[phone], nil
}

func (m *mockUserRepository) UpsertByPhone(user *models.User) (*models.User, error) {
	if existing, ok := m.usersByPhone[user.Phone]; ok {
		if user.Name != "" {
			existing.Name = user.Name
		}
		if user.Role != "" {
			existing.Role = user.Role
		}
		return existing, nil
	}
	m.nextID++
	user.ID = "user-" + user.Phone
	m.usersByPhone[user.Phone] = user
	return user, nil
}

type mockLocationRepository struct {
	locationsByName map[string]*models.Location
}

func (m *mockLocationRepository) Upsert(name, locType string) (*models.Location, error) {
	if loc, ok := m.locationsByName[name]; ok {
		return loc, nil
	}
	loc := &models.Location{ID: "loc-" + name, Name: name, Type: locType}
	m.locationsByName[name] = loc
	return loc, nil
}

type mockAssignmentRepository struct {
	edges map[string]string // userID -> locationID
}

func (m *mockAssignmentRepository) Upsert(userID, locationID string) error {
	m.edges[userID] = locationID
	return nil
}

func setupService(t *testing.T) (*Service, *mockUserRepository, *mockAssignmentRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	users := newMockUserRepository()
	assignments := &mockAssignmentRepository{edges: make(map[string]string)}
	svc := NewServiceWithInterfaces(
		users,
		&mockLocationRepository{locationsByName: make(map[string]*models.Location)},
		assignments,
		cache.NewRedisCacheFromClient(client),
		&config.AuthConfig{
			JWTSecret: "test-secret",
			FixedOTP:  "123456",
			OTPTTL:    300,
		},
		logger.New("error", "json", "stdout"),
	)
	return svc, users, assignments, mr
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"9876543210", "9876543210", false},
		{"+91 98765 43210", "9876543210", false},
		{"919876543210", "9876543210", false},
		{"09876543210", "9876543210", false},
		{"98765", "", true},
		{"1234567890", "", true}, // starts below 6
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPhone) {
				t.Errorf("NormalizePhone(%q): expected ErrInvalidPhone, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePhone(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRequestAndVerifyOTP(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("RequestOTP failed: %v", err)
	}

	token, user, err := svc.VerifyOTP(ctx, "9876543210", "123456", "Ravi")
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}
	if token == "" {
		t.Error("Expected a signed token")
	}
	if user.Role != models.RoleCitizen {
		t.Errorf("Expected citizen role, got %s", user.Role)
	}
	if user.Name != "Ravi" {
		t.Errorf("Expected name Ravi, got %s", user.Name)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("RequestOTP failed: %v", err)
	}

	if _, _, err := svc.VerifyOTP(ctx, "9876543210", "000000", ""); !errors.Is(err, ErrInvalidOTP) {
		t.Errorf("Expected ErrInvalidOTP, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, _, _, mr := setupService(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("RequestOTP failed: %v", err)
	}

	mr.FastForward(6 * time.Minute) // past the 300s TTL

	if _, _, err := svc.VerifyOTP(ctx, "9876543210", "123456", ""); !errors.Is(err, ErrInvalidOTP) {
		t.Errorf("Expected ErrInvalidOTP after expiry, got %v", err)
	}
}

func TestVerifyOTPIsSingleUse(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("RequestOTP failed: %v", err)
	}
	if _, _, err := svc.VerifyOTP(ctx, "9876543210", "123456", ""); err != nil {
		t.Fatalf("First VerifyOTP failed: %v", err)
	}
	if _, _, err := svc.VerifyOTP(ctx, "9876543210", "123456", ""); !errors.Is(err, ErrInvalidOTP) {
		t.Errorf("Expected consumed OTP to be rejected, got %v", err)
	}
}

func TestDemoSupervisorLoginSeedsAssignment(t *testing.T) {
	svc, users, assignments, _ := setupService(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "8000000002"); err != nil {
		t.Fatalf("RequestOTP failed: %v", err)
	}
	_, user, err := svc.VerifyOTP(ctx, "8000000002", "123456", "ignored name")
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}

	if user.Role != models.RoleEmployee {
		t.Errorf("Expected employee role, got %s", user.Role)
	}
	if user.Name != "CBIT College Supervisor" {
		t.Errorf("Expected demo name to win, got %s", user.Name)
	}
	if _, ok := assignments.edges[user.ID]; !ok {
		t.Error("Expected routing assignment to be seeded")
	}
	if users.usersByPhone["8000000002"] == nil {
		t.Error("Expected demo user persisted")
	}
}

func TestDemoAdminLogin(t *testing.T) {
	svc, _, assignments, _ := setupService(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "9000000001"); err != nil {
		t.Fatalf("RequestOTP failed: %v", err)
	}
	_, user, err := svc.VerifyOTP(ctx, "9000000001", "123456", "")
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("Expected admin role, got %s", user.Role)
	}
	if len(assignments.edges) != 0 {
		t.Error("Admin login must not create routing assignments")
	}
}

func TestParseToken(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	if err := svc.RequestOTP(ctx, "9876543210"); err != nil {
		t.Fatalf("RequestOTP failed: %v", err)
	}
	token, user, err := svc.VerifyOTP(ctx, "9876543210", "123456", "Ravi")
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleCitizen || claims.Phone != "9876543210" {
		t.Errorf("Unexpected claims: %+v", claims)
	}

	if _, err := svc.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}
