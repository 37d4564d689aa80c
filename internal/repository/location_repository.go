package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gramseva/gram-seva-backend/internal/models"
)

// SearchLimit caps fuzzy location search results.
const SearchLimit = 10

// LocationRepository handles location directory operations.
type LocationRepository struct {
	db *DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Search performs a case-insensitive partial name match, capped at SearchLimit.
func (r *LocationRepository) Search(query string) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%").
		Order("name ASC").
		Limit(SearchLimit).
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search locations for %q: %w", query, err)
	}
	return locations, nil
}

// GetByID retrieves a location by ID.
func (r *LocationRepository) GetByID(id string) (*models.Location, error) {
	var location models.Location
	if err := r.db.First(&location, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get location by id %s: %w", id, err)
	}
	return &location, nil
}

// GetByName retrieves a location by exact name. Returns nil when none exists.
func (r *LocationRepository) GetByName(name string) (*models.Location, error) {
	var location models.Location
	err := r.db.Where("name = ?", name).First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location by name %q: %w", name, err)
	}
	return &location, nil
}

// FindByPartialName returns the first location whose name contains the query,
// used as the routing fallback when no exact match exists.
func (r *LocationRepository) FindByPartialName(query string) (*models.Location, error) {
	var location models.Location
	err := r.db.Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%").
		Order("name ASC").
		First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find location by partial name %q: %w", query, err)
	}
	return &location, nil
}

// Upsert creates a location by name if it does not exist and returns it.
func (r *LocationRepository) Upsert(name, locType string) (*models.Location, error) {
	existing, err := r.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	location := &models.Location{Name: name, Type: locType}
	if err := r.db.Create(location).Error; err != nil {
		return nil, fmt.Errorf("failed to create location %q: %w", name, err)
	}
	return location, nil
}

// ListContacts retrieves directory contacts for a location.
func (r *LocationRepository) ListContacts(locationID string) ([]models.LocationContact, error) {
	var contacts []models.LocationContact
	err := r.db.Where("location_id = ?", locationID).
		Order("contact_name ASC").
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts for location %s: %w", locationID, err)
	}
	return contacts, nil
}

// CreateContact creates a directory contact.
func (r *LocationRepository) CreateContact(contact *models.LocationContact) error {
	if err := r.db.Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create location contact: %w", err)
	}
	return nil
}

// UpdateContact updates a directory contact.
func (r *LocationRepository) UpdateContact(contact *models.LocationContact) error {
	if err := r.db.Save(contact).Error; err != nil {
		return fmt.Errorf("failed to update location contact: %w", err)
	}
	return nil
}

// DeleteContact deletes a directory contact.
func (r *LocationRepository) DeleteContact(id string) error {
	if err := r.db.Delete(&models.LocationContact{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete location contact %s: %w", id, err)
	}
	return nil
}
