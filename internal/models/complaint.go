package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint status values. Transitions are intended to move forward only
// (submitted -> in_progress -> resolved) but the update path applies the
// requested status directly; see service layer notes.
const (
	StatusSubmitted  = "submitted"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Categories a citizen can file a complaint under.
var ComplaintCategories = []string{
	"Roads & Infrastructure",
	"Water Supply",
	"Electricity",
	"Sanitation",
	"Healthcare",
	"Education",
	"Agriculture",
	"Ration & Civil Supplies",
	"Land Records",
	"Other",
}

// VoiceOnlyDescription substitutes the description when a complaint carries
// only an audio recording.
const VoiceOnlyDescription = "Voice complaint (audio attached)"

// Complaint is a citizen grievance tied to a location. assigned_officer_id is
// the authoritative routing field; forwarded_to is the human-readable
// fallback authority label shown when no supervisor matched.
type Complaint struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"size:255" json:"name"`
	Phone             string    `gorm:"size:20;index" json:"phone"`
	LocationName      string    `gorm:"size:255" json:"location_name"`
	LocationID        *string   `gorm:"type:uuid;index" json:"location_id"`
	Location          *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	AreaType          string    `gorm:"size:20" json:"area_type"` // "Village", "City" or ""
	Category          string    `gorm:"size:100;not null" json:"category"`
	Description       string    `gorm:"type:text;not null" json:"description"`
	VoiceMessage      *string   `gorm:"type:text" json:"voice_message,omitempty"` // base64 audio blob
	VoiceDuration     *int      `json:"voice_duration,omitempty"`                 // seconds
	Status            string    `gorm:"size:20;not null;default:submitted;index" json:"status"`
	AssignedOfficerID *string   `gorm:"type:uuid;index" json:"assigned_officer_id"`
	AssignedOfficer   *User     `gorm:"foreignKey:AssignedOfficerID" json:"assigned_officer,omitempty"`
	ForwardedTo       string    `gorm:"size:255" json:"forwarded_to"`
	SubmittedAt       time.Time `gorm:"index" json:"submitted_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for Complaint model.
func (Complaint) TableName() string {
	return "complaints"
}

// BeforeCreate assigns a UUID primary key and the submission timestamp.
func (c *Complaint) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now()
	}
	return nil
}

// IsResolved reports whether the complaint reached its terminal state.
func (c *Complaint) IsResolved() bool {
	return c.Status == StatusResolved
}

// ComplaintAssignment is a secondary audit record of assignment events. It is
// not authoritative for current routing.
type ComplaintAssignment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID string    `gorm:"type:uuid;not null;index" json:"complaint_id"`
	Complaint   Complaint `gorm:"foreignKey:ComplaintID" json:"complaint,omitempty"`
	AssignedTo  string    `gorm:"type:uuid;not null" json:"assigned_to"`
	AssignedBy  *string   `gorm:"type:uuid" json:"assigned_by"`
	Status      string    `gorm:"size:20" json:"status"`
	AssignedAt  time.Time `json:"assigned_at"`
}

// TableName specifies the table name for ComplaintAssignment model.
func (ComplaintAssignment) TableName() string {
	return "complaint_assignments"
}

// BeforeCreate assigns a UUID primary key and the assignment timestamp.
func (a *ComplaintAssignment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	return nil
}

// ComplaintComment is a remark left on a complaint by the assigned officer
// or an admin.
type ComplaintComment struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID string    `gorm:"type:uuid;not null;index" json:"complaint_id"`
	UserID      string    `gorm:"type:uuid;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for ComplaintComment model.
func (ComplaintComment) TableName() string {
	return "complaint_comments"
}

// BeforeCreate assigns a UUID primary key.
func (c *ComplaintComment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ComplaintNotification is an in-app notification row for an officer or
// citizen, written on status changes and by the daily digest job.
type ComplaintNotification struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID     string    `gorm:"type:uuid;not null;index" json:"complaint_id"`
	RecipientUserID string    `gorm:"type:uuid;not null;index" json:"recipient_user_id"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	Read            bool      `gorm:"default:false" json:"read"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for ComplaintNotification model.
func (ComplaintNotification) TableName() string {
	return "complaint_notifications"
}

// BeforeCreate assigns a UUID primary key.
func (n *ComplaintNotification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// SupervisorFeedback is a citizen rating of the assigned supervisor, created
// at most once per complaint after resolution. No update or delete path.
type SupervisorFeedback struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID  string    `gorm:"type:uuid;not null;index" json:"complaint_id"`
	SupervisorID string    `gorm:"type:uuid;not null" json:"supervisor_id"`
	Rating       int       `gorm:"not null" json:"rating"` // 1-5
	Comments     string    `gorm:"type:text" json:"comments"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for SupervisorFeedback model.
func (SupervisorFeedback) TableName() string {
	return "supervisor_feedback"
}

// BeforeCreate assigns a UUID primary key.
func (f *SupervisorFeedback) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
