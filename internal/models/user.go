// Package models defines domain models for the Gram Seva grievance system.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleCitizen  = "citizen"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Location types.
const (
	LocationTypeVillage = "village"
	LocationTypeCity    = "city"
)

// User represents a citizen, supervisor (employee) or admin account.
// Phone is the natural login key; ID is the surrogate referenced elsewhere.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Phone     string    `gorm:"uniqueIndex;not null;size:20" json:"phone"`
	Role      string    `gorm:"size:20;not null;default:citizen" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsOfficial reports whether the user may act on complaints.
func (u *User) IsOfficial() bool {
	return u.Role == RoleEmployee || u.Role == RoleAdmin
}

// Location is a named administrative unit (village or city) that complaints
// are routed against. Never deleted in normal flow.
type Location struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Location model.
func (Location) TableName() string {
	return "locations"
}

// BeforeCreate assigns a UUID primary key.
func (l *Location) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LocationContact is an informational directory entry for a location,
// editable by admins. Many per location.
type LocationContact struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID  string    `gorm:"type:uuid;not null;index" json:"location_id"`
	Location    Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	ContactName string    `gorm:"size:255;not null" json:"contact_name"`
	Phone       string    `gorm:"size:20" json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for LocationContact model.
func (LocationContact) TableName() string {
	return "location_contacts"
}

// BeforeCreate assigns a UUID primary key.
func (c *LocationContact) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// EmployeeAssignment is the sole routing edge from a location to its
// responsible supervisor. Upsert is idempotent on (user_id, location_id);
// reads take the first match.
type EmployeeAssignment struct {
	ID         string   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string   `gorm:"type:uuid;not null;uniqueIndex:idx_employee_location" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	LocationID string   `gorm:"type:uuid;not null;uniqueIndex:idx_employee_location;index" json:"location_id"`
	Location   Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

// TableName specifies the table name for EmployeeAssignment model.
func (EmployeeAssignment) TableName() string {
	return "employee_assignments"
}

// BeforeCreate assigns a UUID primary key.
func (a *EmployeeAssignment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
