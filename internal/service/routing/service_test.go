package routing

import (
	"strings"
	"testing"

	"github.com/gramseva/gram-seva-backend/internal/geo"
	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

// Mock repositories for testing
type mockLocationRepository struct {
	locations []models.Location
}

func (m *mockLocationRepository) GetByName(name string) (*models.Location, error) {
	for i := range m.locations {
		if m.locations[i].Name == name {
			return &m.locations[i], nil
		}
	}
	return nil, nil
}

func (m *mockLocationRepository) FindByPartialName(query string) (*models.Location, error) {
	for i := range m.locations {
		if strings.Contains(strings.ToLower(m.locations[i].Name), strings.ToLower(query)) {
			return &m.locations[i], nil
		}
	}
	return nil, nil
}

type mockAssignmentRepository struct {
	supervisors map[string]*models.User // locationID -> supervisor
}

func (m *mockAssignmentRepository) FindSupervisor(locationID string) (*models.User, error) {
	return m.supervisors[locationID], nil
}

func newTestService(t *testing.T, locations []models.Location, supervisors map[string]*models.User) *Service {
	t.Helper()

	hierarchy, err := geo.NewHierarchy()
	if err != nil {
		t.Fatalf("Failed to load hierarchy: %v", err)
	}

	return NewServiceWithInterfaces(
		hierarchy,
		&mockLocationRepository{locations: locations},
		&mockAssignmentRepository{supervisors: supervisors},
		logger.New("error", "json", "stdout"),
	)
}

func TestRouteToAssignedSupervisor(t *testing.T) {
	collegeLocation := models.Location{
		ID:   "loc-1",
		Name: "CBIT College, Gandipet mandal, Telangana",
		Type: models.LocationTypeCity,
	}
	supervisor := &models.User{ID: "user-1", Name: "CBIT College Supervisor", Role: models.RoleEmployee}

	svc := newTestService(t,
		[]models.Location{collegeLocation},
		map[string]*models.User{"loc-1": supervisor},
	)

	res, err := svc.Route("CBIT College, Gandipet", "")
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	if res.Supervisor == nil || res.Supervisor.ID != "user-1" {
		t.Fatalf("Expected supervisor user-1, got %+v", res.Supervisor)
	}
	if res.ForwardedTo != "" {
		t.Errorf("Expected empty forwarding label when supervisor matched, got %q", res.ForwardedTo)
	}
	if res.Mandal != "Gandipet" {
		t.Errorf("Expected mandal Gandipet, got %q", res.Mandal)
	}
}

func TestRouteUnknownLocationFallsBack(t *testing.T) {
	svc := newTestService(t, nil, nil)

	res, err := svc.Route("Unknown Remote Village", "")
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	if res.Supervisor != nil {
		t.Fatalf("Expected nil supervisor, got %+v", res.Supervisor)
	}
	if res.ForwardedTo != UnknownAuthority {
		t.Errorf("Expected %q, got %q", UnknownAuthority, res.ForwardedTo)
	}
}

func TestRouteVillageFallbackLabel(t *testing.T) {
	svc := newTestService(t, nil, nil)

	res, err := svc.Route("Yellandu, Bhadradri Kothagudem", geo.AreaVillage)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	want := "Gram Panchayat – Yellandu"
	if res.ForwardedTo != want {
		t.Errorf("Expected %q, got %q", want, res.ForwardedTo)
	}
}

func TestRouteCityFallbackLabel(t *testing.T) {
	svc := newTestService(t, nil, nil)

	res, err := svc.Route("Nizamabad Urban, Nizamabad", geo.AreaCity)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	want := "Nizamabad Urban Municipality Office"
	if res.ForwardedTo != want {
		t.Errorf("Expected %q, got %q", want, res.ForwardedTo)
	}
}

func TestRouteLocationWithoutSupervisor(t *testing.T) {
	loc := models.Location{ID: "loc-2", Name: "Tandur", Type: models.LocationTypeVillage}
	svc := newTestService(t, []models.Location{loc}, map[string]*models.User{})

	res, err := svc.Route("Tandur", geo.AreaVillage)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	if res.Location == nil || res.Location.ID != "loc-2" {
		t.Fatalf("Expected matched location loc-2, got %+v", res.Location)
	}
	if res.Supervisor != nil {
		t.Errorf("Expected nil supervisor, got %+v", res.Supervisor)
	}
	if res.ForwardedTo != "Gram Panchayat – Tandur" {
		t.Errorf("Expected village fallback, got %q", res.ForwardedTo)
	}
}

func TestRouteExactMatchBeatsPartial(t *testing.T) {
	locations := []models.Location{
		{ID: "loc-a", Name: "Warangal Greater City"},
		{ID: "loc-b", Name: "Warangal"},
	}
	supervisor := &models.User{ID: "user-2", Role: models.RoleEmployee}
	svc := newTestService(t, locations, map[string]*models.User{"loc-b": supervisor})

	res, err := svc.Route("Warangal", "")
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}

	if res.Location == nil || res.Location.ID != "loc-b" {
		t.Errorf("Expected exact match loc-b, got %+v", res.Location)
	}
}
