package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gramseva/gram-seva-backend/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by id %s: %w", id, err)
	}
	return &user, nil
}

// GetByPhone retrieves a user by phone number. Returns nil when no user
// exists for the phone.
func (r *UserRepository) GetByPhone(phone string) (*models.User, error) {
	var user models.User
	err := r.db.Where("phone = ?", phone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by phone %s: %w", phone, err)
	}
	return &user, nil
}

// Update updates a user.
func (r *UserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// List retrieves all users with an optional role filter.
func (r *UserRepository) List(role string) ([]models.User, error) {
	query := r.db.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpsertByPhone creates a user keyed by phone, or updates name/role if one
// already exists. Citizens are created this way on first successful login;
// demo supervisor/admin accounts are re-seeded on every login.
func (r *UserRepository) UpsertByPhone(user *models.User) (*models.User, error) {
	existing, err := r.GetByPhone(user.Phone)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := r.Create(user); err != nil {
			return nil, err
		}
		return user, nil
	}

	if user.Name != "" {
		existing.Name = user.Name
	}
	if user.Role != "" {
		existing.Role = user.Role
	}
	existing.UpdatedAt = time.Now()
	if err := r.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}
