// Package complaints implements the complaint record manager: creation with
// routing, status transitions, officer comments and citizen feedback.
package complaints

import (
	"errors"
	"fmt"
	"time"

	prommetrics "github.com/gramseva/gram-seva-backend/internal/metrics"
	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/internal/repository"
	"github.com/gramseva/gram-seva-backend/internal/service/routing"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// Validation errors surfaced before any database write.
var (
	ErrMissingPhone       = errors.New("phone number is required")
	ErrMissingCategory    = errors.New("category is required")
	ErrUnknownCategory    = errors.New("unknown complaint category")
	ErrMissingDescription = errors.New("either a description or a voice recording is required")
	ErrInvalidStatus      = errors.New("invalid complaint status")
	ErrNotAuthorized      = errors.New("only the assigned officer or an admin may update this complaint")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrNotResolved        = errors.New("feedback is only accepted for resolved complaints")
	ErrFeedbackExists     = errors.New("feedback was already submitted for this complaint")
	ErrNoSupervisor       = errors.New("complaint has no assigned supervisor to rate")
)

// ComplaintRepository interface for complaint persistence.
type ComplaintRepository interface {
	Create(complaint *models.Complaint) error
	GetByID(id string) (*models.Complaint, error)
	Update(complaint *models.Complaint) error
	ListByPhone(phone string) ([]models.Complaint, error)
	ListByOfficer(officerID string) ([]models.Complaint, error)
	List(status string) ([]models.Complaint, error)
	CountByStatus() (map[string]int64, error)
	CreateAssignmentRecord(record *models.ComplaintAssignment) error
	CreateComment(comment *models.ComplaintComment) error
	ListComments(complaintID string) ([]models.ComplaintComment, error)
	CreateNotification(notification *models.ComplaintNotification) error
	FeedbackExists(complaintID string) (bool, error)
	CreateFeedback(feedback *models.SupervisorFeedback) error
}

// Router interface for location-to-supervisor resolution.
type Router interface {
	Route(locationName, areaType string) (*routing.Resolution, error)
}

// UserRepository interface for recipient lookups.
type UserRepository interface {
	GetByPhone(phone string) (*models.User, error)
}

// SubmitInput is a citizen submission.
type SubmitInput struct {
	Name          string
	Phone         string
	LocationName  string
	AreaType      string
	Category      string
	Description   string
	VoiceMessage  string // base64 audio, optional
	VoiceDuration int    // seconds
}

// Service implements complaint operations.
type Service struct {
	complaintRepo ComplaintRepository
	userRepo      UserRepository
	router        Router
	log           *logger.Logger
}

// NewService creates a new complaint service.
func NewService(
	complaintRepo *repository.ComplaintRepository,
	userRepo *repository.UserRepository,
	router *routing.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		router:        router,
		log:           log,
	}
}

// NewServiceWithInterfaces creates a new complaint service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	complaintRepo ComplaintRepository,
	userRepo UserRepository,
	router Router,
	log *logger.Logger,
) *Service {
	return &Service{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		router:        router,
		log:           log,
	}
}

// Submit validates and persists a citizen complaint. The location is resolved
// to a supervisor when possible; otherwise the forwarding label is stored.
// The complaint insert and the audit assignment row are two independent
// writes with no transaction boundary; a failure between them leaves the
// complaint without its audit row.
func (s *Service) Submit(input SubmitInput) (*models.Complaint, error) {
	if input.Phone == "" {
		return nil, ErrMissingPhone
	}
	if input.Category == "" {
		return nil, ErrMissingCategory
	}
	if !validCategory(input.Category) {
		return nil, ErrUnknownCategory
	}
	if input.Description == "" && input.VoiceMessage == "" {
		return nil, ErrMissingDescription
	}

	description := input.Description
	if description == "" {
		description = models.VoiceOnlyDescription
	}

	res, err := s.router.Route(input.LocationName, input.AreaType)
	if err != nil {
		return nil, fmt.Errorf("failed to route complaint: %w", err)
	}

	complaint := &models.Complaint{
		Name:         input.Name,
		Phone:        input.Phone,
		LocationName: input.LocationName,
		AreaType:     input.AreaType,
		Category:     input.Category,
		Description:  description,
		Status:       models.StatusSubmitted,
		ForwardedTo:  res.ForwardedTo,
	}
	if input.VoiceMessage != "" {
		complaint.VoiceMessage = &input.VoiceMessage
		complaint.VoiceDuration = &input.VoiceDuration
	}
	if res.Location != nil {
		complaint.LocationID = &res.Location.ID
	}
	if res.Supervisor != nil {
		complaint.AssignedOfficerID = &res.Supervisor.ID
	}

	if err := s.complaintRepo.Create(complaint); err != nil {
		return nil, err
	}

	if res.Supervisor != nil {
		record := &models.ComplaintAssignment{
			ComplaintID: complaint.ID,
			AssignedTo:  res.Supervisor.ID,
			Status:      models.StatusSubmitted,
		}
		if err := s.complaintRepo.CreateAssignmentRecord(record); err != nil {
			return nil, err
		}
	}

	prommetrics.RecordComplaintSubmitted(complaint.Category, complaint.AreaType, res.Supervisor != nil)

	s.log.Info().
		Str("complaint_id", complaint.ID).
		Str("category", complaint.Category).
		Str("location", complaint.LocationName).
		Bool("routed", res.Supervisor != nil).
		Msg("Complaint submitted")

	return complaint, nil
}

// Get returns a complaint by ID.
func (s *Service) Get(id string) (*models.Complaint, error) {
	return s.complaintRepo.GetByID(id)
}

// ListByPhone returns a citizen's complaints.
func (s *Service) ListByPhone(phone string) ([]models.Complaint, error) {
	return s.complaintRepo.ListByPhone(phone)
}

// ListForOfficial returns the caller's worklist: everything for admins, only
// assigned complaints for employees.
func (s *Service) ListForOfficial(actor *models.User, status string) ([]models.Complaint, error) {
	if actor.Role == models.RoleAdmin {
		return s.complaintRepo.List(status)
	}
	return s.complaintRepo.ListByOfficer(actor.ID)
}

// Stats returns complaint counts grouped by status and refreshes the gauges.
func (s *Service) Stats() (map[string]int64, error) {
	counts, err := s.complaintRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	for status, count := range counts {
		prommetrics.SetOpenComplaints(status, count)
	}
	return counts, nil
}

// UpdateStatus applies the requested status. Only the assigned officer or an
// admin may update, and a resolved complaint is immutable. The call applies
// the status directly: submitted -> resolved with no in_progress step is
// accepted (there is no schema guard against skipping stages).
func (s *Service) UpdateStatus(complaintID, newStatus string, actor *models.User) (*models.Complaint, error) {
	if !validStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	if !s.mayAct(complaint, actor) {
		return nil, ErrNotAuthorized
	}
	if complaint.IsResolved() {
		return nil, fmt.Errorf("complaint %s is already resolved: %w", complaintID, ErrInvalidStatus)
	}

	previous := complaint.Status
	complaint.Status = newStatus
	if err := s.complaintRepo.Update(complaint); err != nil {
		return nil, err
	}

	if newStatus == models.StatusResolved {
		prommetrics.RecordComplaintResolved(complaint.Category)
		prommetrics.ObserveResolutionTime(time.Since(complaint.SubmittedAt).Seconds())
		s.notifyCitizen(complaint)
	}

	s.log.Info().
		Str("complaint_id", complaintID).
		Str("from", previous).
		Str("to", newStatus).
		Str("actor", actor.ID).
		Msg("Complaint status updated")

	return complaint, nil
}

// notifyCitizen writes an in-app notification for the citizen's account, if
// the submitting phone belongs to a registered user. Best effort.
func (s *Service) notifyCitizen(complaint *models.Complaint) {
	citizen, err := s.userRepo.GetByPhone(complaint.Phone)
	if err != nil || citizen == nil {
		return
	}
	notification := &models.ComplaintNotification{
		ComplaintID:     complaint.ID,
		RecipientUserID: citizen.ID,
		Message:         fmt.Sprintf("Your complaint %s has been resolved.", complaint.ID),
	}
	if err := s.complaintRepo.CreateNotification(notification); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", complaint.ID).Msg("Failed to write resolution notification")
	}
}

// AddComment records an officer remark on a complaint.
func (s *Service) AddComment(complaintID, text string, actor *models.User) (*models.ComplaintComment, error) {
	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}
	if !s.mayAct(complaint, actor) {
		return nil, ErrNotAuthorized
	}

	comment := &models.ComplaintComment{
		ComplaintID: complaintID,
		UserID:      actor.ID,
		Comment:     text,
	}
	if err := s.complaintRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the remarks on a complaint.
func (s *Service) ListComments(complaintID string) ([]models.ComplaintComment, error) {
	return s.complaintRepo.ListComments(complaintID)
}

// FeedbackExists reports whether feedback was already submitted. Exposed so
// the UI can hide the form; this is a check-before-show gate, not a unique
// constraint.
func (s *Service) FeedbackExists(complaintID string) (bool, error) {
	return s.complaintRepo.FeedbackExists(complaintID)
}

// SubmitFeedback records a one-time citizen rating of the assigned
// supervisor for a resolved complaint.
func (s *Service) SubmitFeedback(complaintID string, rating int, comments string) (*models.SupervisorFeedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}
	if !complaint.IsResolved() {
		return nil, ErrNotResolved
	}
	if complaint.AssignedOfficerID == nil {
		return nil, ErrNoSupervisor
	}

	exists, err := s.complaintRepo.FeedbackExists(complaintID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFeedbackExists
	}

	feedback := &models.SupervisorFeedback{
		ComplaintID:  complaintID,
		SupervisorID: *complaint.AssignedOfficerID,
		Rating:       rating,
		Comments:     comments,
	}
	if err := s.complaintRepo.CreateFeedback(feedback); err != nil {
		return nil, err
	}

	prommetrics.FeedbackSubmittedTotal.Inc()
	return feedback, nil
}

func (s *Service) mayAct(complaint *models.Complaint, actor *models.User) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	if actor.Role != models.RoleEmployee {
		return false
	}
	return complaint.AssignedOfficerID != nil && *complaint.AssignedOfficerID == actor.ID
}

func validCategory(category string) bool {
	for _, c := range models.ComplaintCategories {
		if c == category {
			return true
		}
	}
	return false
}

func validStatus(status string) bool {
	switch status {
	case models.StatusSubmitted, models.StatusInProgress, models.StatusResolved:
		return true
	}
	return false
}
