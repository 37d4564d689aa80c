// Package routing matches a complaint's location string to an administrative
// unit and the supervisor responsible for it.
package routing

import (
	"strings"

	"github.com/gramseva/gram-seva-backend/internal/geo"
	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/internal/repository"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// UnknownAuthority is the forwarding label when nothing at all matched.
const UnknownAuthority = "Unknown Authority"

// LocationRepository interface for location lookups.
type LocationRepository interface {
	GetByName(name string) (*models.Location, error)
	FindByPartialName(query string) (*models.Location, error)
}

// AssignmentRepository interface for supervisor lookups.
type AssignmentRepository interface {
	FindSupervisor(locationID string) (*models.User, error)
}

// Resolution is the outcome of routing a location string.
type Resolution struct {
	District    string
	Mandal      string
	Location    *models.Location // nil when no directory entry matched
	Supervisor  *models.User     // nil when no supervisor is assigned
	ForwardedTo string           // fallback label, set only when Supervisor is nil
}

// Service resolves locations and looks up the assigned supervisor.
type Service struct {
	hierarchy      *geo.Hierarchy
	locationRepo   LocationRepository
	assignmentRepo AssignmentRepository
	log            *logger.Logger
}

// NewService creates a new routing service.
func NewService(
	hierarchy *geo.Hierarchy,
	locationRepo *repository.LocationRepository,
	assignmentRepo *repository.AssignmentRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		hierarchy:      hierarchy,
		locationRepo:   locationRepo,
		assignmentRepo: assignmentRepo,
		log:            log,
	}
}

// NewServiceWithInterfaces creates a new routing service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	hierarchy *geo.Hierarchy,
	locationRepo LocationRepository,
	assignmentRepo AssignmentRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		hierarchy:      hierarchy,
		locationRepo:   locationRepo,
		assignmentRepo: assignmentRepo,
		log:            log,
	}
}

// Route resolves a free-text location to (district, mandal), finds a matching
// directory location and its supervisor, and computes the forwarding fallback
// when no supervisor exists. Lookup misses are non-fatal; only database
// errors are returned.
func (s *Service) Route(locationName, areaType string) (*Resolution, error) {
	res := &Resolution{}
	res.District, res.Mandal = s.hierarchy.Resolve(locationName)

	location, err := s.matchLocation(locationName, res.Mandal)
	if err != nil {
		return nil, err
	}
	res.Location = location

	if location != nil {
		supervisor, err := s.assignmentRepo.FindSupervisor(location.ID)
		if err != nil {
			return nil, err
		}
		res.Supervisor = supervisor
	}

	if res.Supervisor == nil {
		res.ForwardedTo = s.fallbackAuthority(locationName, areaType, res.Mandal)
		s.log.Debug().
			Str("location", locationName).
			Str("forwarded_to", res.ForwardedTo).
			Msg("No supervisor matched, using forwarding label")
	}

	return res, nil
}

// matchLocation tries exact name, then partial containment of the raw string,
// then the resolved mandal. First match wins.
func (s *Service) matchLocation(locationName, mandal string) (*models.Location, error) {
	trimmed := strings.TrimSpace(locationName)
	if trimmed == "" {
		return nil, nil
	}

	location, err := s.locationRepo.GetByName(trimmed)
	if err != nil {
		return nil, err
	}
	if location != nil {
		return location, nil
	}

	location, err = s.locationRepo.FindByPartialName(trimmed)
	if err != nil {
		return nil, err
	}
	if location != nil {
		return location, nil
	}

	if mandal != "" {
		location, err = s.locationRepo.FindByPartialName(mandal)
		if err != nil {
			return nil, err
		}
	}
	return location, nil
}

// fallbackAuthority builds the human-readable label shown when no supervisor
// is assigned: "Gram Panchayat – <village>" or "<city> Municipality Office".
func (s *Service) fallbackAuthority(locationName, areaType, mandal string) string {
	name := mandal
	if name == "" {
		name = strings.TrimSpace(locationName)
	}
	if name == "" {
		return UnknownAuthority
	}

	switch areaType {
	case geo.AreaVillage:
		return "Gram Panchayat – " + name
	case geo.AreaCity:
		return name + " Municipality Office"
	default:
		return UnknownAuthority
	}
}
