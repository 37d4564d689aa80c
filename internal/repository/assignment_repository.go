package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gramseva/gram-seva-backend/internal/models"
)

// AssignmentRepository handles the location-to-supervisor routing table.
type AssignmentRepository struct {
	db *DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindSupervisor returns the supervisor responsible for a location: the user
// of the first assignment row for the location that carries role employee.
// Returns nil when no supervisor is assigned. When duplicate assignments
// exist the first row wins; no tie-break is defined.
func (r *AssignmentRepository) FindSupervisor(locationID string) (*models.User, error) {
	var assignments []models.EmployeeAssignment
	err := r.db.Where("location_id = ?", locationID).
		Preload("User").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up assignments for location %s: %w", locationID, err)
	}

	for i := range assignments {
		if assignments[i].User.Role == models.RoleEmployee {
			user := assignments[i].User
			return &user, nil
		}
	}
	return nil, nil
}

// GetByUser returns the first assignment for a user, with its location.
// Supervisors hold one active assignment in this design.
func (r *AssignmentRepository) GetByUser(userID string) (*models.EmployeeAssignment, error) {
	var assignment models.EmployeeAssignment
	err := r.db.Where("user_id = ?", userID).
		Preload("Location").
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment for user %s: %w", userID, err)
	}
	return &assignment, nil
}

// Upsert creates the (user, location) assignment edge if it does not already
// exist. Idempotent.
func (r *AssignmentRepository) Upsert(userID, locationID string) error {
	var existing models.EmployeeAssignment
	err := r.db.Where("user_id = ? AND location_id = ?", userID, locationID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check assignment for user %s: %w", userID, err)
	}

	assignment := &models.EmployeeAssignment{UserID: userID, LocationID: locationID}
	if err := r.db.Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// List returns all assignments with users and locations preloaded (admin view).
func (r *AssignmentRepository) List() ([]models.EmployeeAssignment, error) {
	var assignments []models.EmployeeAssignment
	err := r.db.Preload("User").Preload("Location").Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}
