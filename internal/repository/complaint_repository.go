package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gramseva/gram-seva-backend/internal/models"
)

// ComplaintRepository handles complaint, audit, comment, notification and
// feedback persistence.
type ComplaintRepository struct {
	db *DB
}

// NewComplaintRepository creates a new complaint repository.
func NewComplaintRepository(db *DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create persists a new complaint.
func (r *ComplaintRepository) Create(complaint *models.Complaint) error {
	if err := r.db.Create(complaint).Error; err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// GetByID retrieves a complaint with its assigned officer preloaded.
func (r *ComplaintRepository) GetByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.Preload("AssignedOfficer").First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint by id %s: %w", id, err)
	}
	return &complaint, nil
}

// Update saves a complaint.
func (r *ComplaintRepository) Update(complaint *models.Complaint) error {
	if err := r.db.Save(complaint).Error; err != nil {
		return fmt.Errorf("failed to update complaint: %w", err)
	}
	return nil
}

// ListByPhone returns a citizen's complaints, newest first.
func (r *ComplaintRepository) ListByPhone(phone string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.Where("phone = ?", phone).
		Order("submitted_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints for phone %s: %w", phone, err)
	}
	return complaints, nil
}

// ListByOfficer returns complaints assigned to an officer, newest first.
func (r *ComplaintRepository) ListByOfficer(officerID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.Where("assigned_officer_id = ?", officerID).
		Order("submitted_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints for officer %s: %w", officerID, err)
	}
	return complaints, nil
}

// List returns all complaints with an optional status filter, newest first.
func (r *ComplaintRepository) List(status string) ([]models.Complaint, error) {
	query := r.db.Model(&models.Complaint{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var complaints []models.Complaint
	err := query.Preload("AssignedOfficer").
		Order("submitted_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// ListUnresolvedOlderThan returns non-resolved complaints submitted before
// the cutoff, for the daily digest job.
func (r *ComplaintRepository) ListUnresolvedOlderThan(cutoff time.Time) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.Where("status <> ? AND submitted_at < ?", models.StatusResolved, cutoff).
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale complaints: %w", err)
	}
	return complaints, nil
}

// CountByStatus returns complaint counts grouped by status.
func (r *ComplaintRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&models.Complaint{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count complaints by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CreateAssignmentRecord writes the secondary audit row for an assignment
// event. Not authoritative for routing.
func (r *ComplaintRepository) CreateAssignmentRecord(record *models.ComplaintAssignment) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create complaint assignment record: %w", err)
	}
	return nil
}

// CreateComment adds an officer remark to a complaint.
func (r *ComplaintRepository) CreateComment(comment *models.ComplaintComment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create complaint comment: %w", err)
	}
	return nil
}

// ListComments returns the remarks on a complaint, oldest first.
func (r *ComplaintRepository) ListComments(complaintID string) ([]models.ComplaintComment, error) {
	var comments []models.ComplaintComment
	err := r.db.Where("complaint_id = ?", complaintID).
		Preload("User").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for complaint %s: %w", complaintID, err)
	}
	return comments, nil
}

// CreateNotification writes an in-app notification row.
func (r *ComplaintRepository) CreateNotification(notification *models.ComplaintNotification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns a recipient's notifications, newest first.
func (r *ComplaintRepository) ListNotifications(recipientID string) ([]models.ComplaintNotification, error) {
	var notifications []models.ComplaintNotification
	err := r.db.Where("recipient_user_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for %s: %w", recipientID, err)
	}
	return notifications, nil
}

// FeedbackExists reports whether feedback was already submitted for a
// complaint. This is the check-before-show gate; there is no unique
// constraint backing it.
func (r *ComplaintRepository) FeedbackExists(complaintID string) (bool, error) {
	var feedback models.SupervisorFeedback
	err := r.db.Where("complaint_id = ?", complaintID).First(&feedback).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check feedback for complaint %s: %w", complaintID, err)
	}
	return true, nil
}

// CreateFeedback persists a supervisor rating.
func (r *ComplaintRepository) CreateFeedback(feedback *models.SupervisorFeedback) error {
	if err := r.db.Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}
