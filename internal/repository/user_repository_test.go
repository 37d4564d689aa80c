package repository

import (
	"testing"

	"github.com/gramseva/gram-seva-backend/internal/models"
)

func TestUserUpsertByPhoneCreates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.UpsertByPhone(&models.User{
		Name:  "Ravi",
		Phone: "9876543210",
		Role:  models.RoleCitizen,
	})
	if err != nil {
		t.Fatalf("UpsertByPhone failed: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected generated UUID")
	}

	got, err := repo.GetByPhone("9876543210")
	if err != nil {
		t.Fatalf("GetByPhone failed: %v", err)
	}
	if got == nil || got.Name != "Ravi" {
		t.Errorf("Unexpected user: %+v", got)
	}
}

func TestUserUpsertByPhoneUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	first, err := repo.UpsertByPhone(&models.User{Phone: "8000000002", Role: models.RoleCitizen})
	if err != nil {
		t.Fatalf("UpsertByPhone failed: %v", err)
	}

	// Demo login promotes the same phone to its supervisor identity.
	second, err := repo.UpsertByPhone(&models.User{
		Name:  "CBIT College Supervisor",
		Phone: "8000000002",
		Role:  models.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("UpsertByPhone failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Expected same user row, got %s and %s", first.ID, second.ID)
	}
	if second.Role != models.RoleEmployee || second.Name != "CBIT College Supervisor" {
		t.Errorf("Expected promoted identity, got %+v", second)
	}
}

func TestUserGetByPhoneMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	got, err := repo.GetByPhone("0000000000")
	if err != nil {
		t.Fatalf("GetByPhone failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing phone, got %+v", got)
	}
}

func TestUserListByRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(&models.User{Phone: "9876543210", Role: models.RoleCitizen}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(&models.User{Phone: "8000000001", Role: models.RoleEmployee}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	employees, err := repo.List(models.RoleEmployee)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(employees) != 1 || employees[0].Phone != "8000000001" {
		t.Errorf("Unexpected employees: %+v", employees)
	}
}
