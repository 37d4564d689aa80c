// Package auth implements phone plus OTP login: OTP issuance with a Redis
// TTL, verification, demo account seeding and JWT session tokens.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gramseva/gram-seva-backend/internal/cache"
	"github.com/gramseva/gram-seva-backend/internal/config"
	prommetrics "github.com/gramseva/gram-seva-backend/internal/metrics"
	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/internal/repository"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

var (
	ErrInvalidPhone = errors.New("not a valid Indian mobile number")
	ErrInvalidOTP   = errors.New("invalid or expired OTP")
	ErrInvalidToken = errors.New("invalid session token")
)

// demoAccount is a hardcoded account seeded on every successful login with
// its phone number. Supervisors also get their location and routing
// assignment re-created, so a fresh database becomes demo-ready the moment
// one of them logs in.
type demoAccount struct {
	Name         string
	Role         string
	LocationName string // empty for non-supervisors
	LocationType string
}

var demoAccounts = map[string]demoAccount{
	"8000000001": {
		Name:         "FD Supervisor",
		Role:         models.RoleEmployee,
		LocationName: "Financial District, Gandipet mandal, Telangana",
		LocationType: models.LocationTypeCity,
	},
	"8000000002": {
		Name:         "CBIT College Supervisor",
		Role:         models.RoleEmployee,
		LocationName: "CBIT College, Gandipet mandal, Telangana",
		LocationType: models.LocationTypeCity,
	},
	"9000000001": {
		Name: "GramSeva Admin",
		Role: models.RoleAdmin,
	},
}

// UserRepository interface for account persistence.
type UserRepository interface {
	GetByPhone(phone string) (*models.User, error)
	UpsertByPhone(user *models.User) (*models.User, error)
}

// LocationRepository interface for demo location seeding.
type LocationRepository interface {
	Upsert(name, locType string) (*models.Location, error)
}

// AssignmentRepository interface for demo routing seeding.
type AssignmentRepository interface {
	Upsert(userID, locationID string) error
}

// Claims are the JWT session claims.
type Claims struct {
	UserID string `json:"uid"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service implements OTP login and token handling.
type Service struct {
	userRepo       UserRepository
	locationRepo   LocationRepository
	assignmentRepo AssignmentRepository
	cache          cache.Cache
	cfg            *config.AuthConfig
	log            *logger.Logger
}

// NewService creates a new auth service.
func NewService(
	userRepo *repository.UserRepository,
	locationRepo *repository.LocationRepository,
	assignmentRepo *repository.AssignmentRepository,
	c cache.Cache,
	cfg *config.AuthConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:       userRepo,
		locationRepo:   locationRepo,
		assignmentRepo: assignmentRepo,
		cache:          c,
		cfg:            cfg,
		log:            log,
	}
}

// NewServiceWithInterfaces creates a new auth service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	userRepo UserRepository,
	locationRepo LocationRepository,
	assignmentRepo AssignmentRepository,
	c cache.Cache,
	cfg *config.AuthConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:       userRepo,
		locationRepo:   locationRepo,
		assignmentRepo: assignmentRepo,
		cache:          c,
		cfg:            cfg,
		log:            log,
	}
}

// NormalizePhone reduces an Indian mobile number in any common written form
// (with +91, 91 or leading zeros) to its bare 10 digits. Returns
// ErrInvalidPhone when the result is not a 10-digit number starting 6-9.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	phone := digits.String()
	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}
	phone = strings.TrimLeft(phone, "0")
	if len(phone) > 10 {
		phone = phone[len(phone)-10:]
	}

	if len(phone) != 10 || phone[0] < '6' || phone[0] > '9' {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func attemptsKey(phone string) string {
	return "otp_attempts:" + phone
}

// RequestOTP generates an OTP for the phone and stores it in Redis with the
// configured TTL. With SMS delivery disabled the configured fixed OTP is
// used and only logged, which is what the demo deployment runs with.
func (s *Service) RequestOTP(ctx context.Context, rawPhone string) error {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		prommetrics.RecordOTPRequest("invalid_phone")
		return err
	}

	otp := s.cfg.FixedOTP
	if s.cfg.SMSEnabled {
		otp, err = generateOTP()
		if err != nil {
			prommetrics.RecordOTPRequest("error")
			return fmt.Errorf("failed to generate OTP: %w", err)
		}
	}

	if err := s.cache.Set(ctx, otpKey(phone), otp, s.cfg.OTPDuration()); err != nil {
		prommetrics.RecordOTPRequest("error")
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	if _, err := s.cache.Incr(ctx, attemptsKey(phone)); err != nil {
		s.log.Warn().Err(err).Msg("Failed to count OTP request")
	}

	if s.cfg.SMSEnabled {
		// TODO: wire the SMS gateway once a provider account exists.
		s.log.Info().Str("phone", phone).Msg("OTP generated for SMS delivery")
	} else {
		s.log.Info().Str("phone", phone).Str("otp", otp).Msg("OTP issued (SMS disabled, fixed code)")
	}

	prommetrics.RecordOTPRequest("ok")
	return nil
}

// VerifyOTP checks the pending OTP for the phone and, on success, logs the
// user in: demo accounts are re-seeded with their role, location and routing
// assignment; any other phone becomes a citizen account on first login.
// Returns the signed JWT and the user.
func (s *Service) VerifyOTP(ctx context.Context, rawPhone, otp, name string) (string, *models.User, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return "", nil, err
	}

	stored, err := s.cache.Get(ctx, otpKey(phone))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read OTP: %w", err)
	}
	if stored == "" || stored != otp {
		return "", nil, ErrInvalidOTP
	}
	if err := s.cache.Del(ctx, otpKey(phone)); err != nil {
		s.log.Warn().Err(err).Str("phone", phone).Msg("Failed to delete consumed OTP")
	}

	user, err := s.loginUser(phone, name)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	prommetrics.RecordLogin(user.Role)
	s.log.Info().Str("phone", phone).Str("role", user.Role).Msg("User logged in")
	return token, user, nil
}

func (s *Service) loginUser(phone, name string) (*models.User, error) {
	if demo, ok := demoAccounts[phone]; ok {
		user, err := s.userRepo.UpsertByPhone(&models.User{
			Name:  demo.Name,
			Phone: phone,
			Role:  demo.Role,
		})
		if err != nil {
			return nil, err
		}
		if demo.LocationName != "" {
			location, err := s.locationRepo.Upsert(demo.LocationName, demo.LocationType)
			if err != nil {
				return nil, err
			}
			if err := s.assignmentRepo.Upsert(user.ID, location.ID); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	return s.userRepo.UpsertByPhone(&models.User{
		Name:  name,
		Phone: phone,
		Role:  models.RoleCitizen,
	})
}

// issueToken signs an HS256 JWT for the user.
func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenDuration())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a JWT and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// generateOTP returns a random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
