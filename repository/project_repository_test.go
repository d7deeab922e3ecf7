package repository

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/constructpro/constructpro-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Project{}, &models.PhotoRecord{}, &models.TeamMember{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestProjectCreateDefaultsStatus(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	project := &models.Project{Name: "Main Street Renovation", Client: "Acme Corp"}
	if err := repo.Create(project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if project.ID == 0 {
		t.Error("expected project ID to be assigned")
	}
	if project.Status != models.ProjectStatusPending {
		t.Errorf("expected default status %q, got %q", models.ProjectStatusPending, project.Status)
	}
}

func TestProjectCreateRejectsInvalidStatus(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	err := repo.Create(&models.Project{Name: "Bad", Status: "cancelled"})
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestProjectUpdateTouchesTimestamp(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	project := &models.Project{Name: "Harbor Bridge"}
	if err := repo.Create(project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	before, err := repo.GetByID(project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	// An update with no field changes still stamps updated_at.
	if err := repo.Touch(project.ID); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	after, err := repo.GetByID(project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("expected updated_at to advance: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestProjectUpdateFields(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	project := &models.Project{Name: "Old Name", Status: models.ProjectStatusPending}
	if err := repo.Create(project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	name := "New Name"
	status := models.ProjectStatusActive
	if err := repo.Update(project.ID, ProjectUpdate{Name: &name, Status: &status}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("expected name %q, got %q", "New Name", got.Name)
	}
	if got.Status != models.ProjectStatusActive {
		t.Errorf("expected status %q, got %q", models.ProjectStatusActive, got.Status)
	}
}

func TestProjectUpdateNotFound(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	if err := repo.Update(999, ProjectUpdate{}); err != gorm.ErrRecordNotFound {
		t.Errorf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestProjectDelete(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	project := &models.Project{Name: "Doomed"}
	if err := repo.Create(project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Delete(project.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(project.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected gorm.ErrRecordNotFound after delete, got %v", err)
	}
	if err := repo.Delete(project.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected gorm.ErrRecordNotFound for second delete, got %v", err)
	}
}

func TestProjectStats(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	stats, err := repo.GetStats()
	if err != nil {
		t.Fatalf("GetStats on empty table failed: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("expected 0 total on empty table, got %d", stats.Total)
	}

	for _, status := range []string{
		models.ProjectStatusActive,
		models.ProjectStatusActive,
		models.ProjectStatusCompleted,
		models.ProjectStatusPending,
	} {
		if err := repo.Create(&models.Project{Name: "P", Status: status}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	stats, err = repo.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 4 || stats.Active != 2 || stats.Completed != 1 || stats.Pending != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestProjectSearch(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	seed := []models.Project{
		{Name: "Harbor Bridge Repair", Client: "City of Portsmouth"},
		{Name: "Office Fit-out", Client: "Harbor Logistics"},
		{Name: "Warehouse Extension", Client: "Acme Corp"},
	}
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	results, err := repo.Search("harbor")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "harbor", len(results))
	}

	results, err = repo.Search("nonexistent")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 matches, got %d", len(results))
	}
}

func TestPhotoRecordLifecycle(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectRepository(db)
	photos := NewPhotoRecordRepository(db)

	project := &models.Project{Name: "Site A"}
	if err := projects.Create(project); err != nil {
		t.Fatalf("Create project failed: %v", err)
	}

	meta := `{"tags":["foundation"]}`
	record := &models.PhotoRecord{URI: "42_photo_1.jpg", ProjectID: project.ID, Metadata: &meta}
	if err := photos.Create(record); err != nil {
		t.Fatalf("Create photo record failed: %v", err)
	}

	list, err := photos.ListByProject(project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 1 || list[0].URI != "42_photo_1.jpg" {
		t.Fatalf("unexpected photo list: %+v", list)
	}

	if err := photos.Delete(record.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := photos.Delete(record.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestTeamMemberLifecycle(t *testing.T) {
	db := newTestDB(t)
	projects := NewProjectRepository(db)
	members := NewTeamMemberRepository(db)

	project := &models.Project{Name: "Site B"}
	if err := projects.Create(project); err != nil {
		t.Fatalf("Create project failed: %v", err)
	}

	member := &models.TeamMember{Name: "Dana Reyes", Role: "Site Manager", ProjectID: project.ID}
	if err := members.Create(member); err != nil {
		t.Fatalf("Create team member failed: %v", err)
	}

	list, err := members.ListByProject(project.ID)
	if err != nil {
		t.Fatalf("ListByProject failed: %v", err)
	}
	if len(list) != 1 || list[0].Role != "Site Manager" {
		t.Fatalf("unexpected member list: %+v", list)
	}

	if err := members.Delete(member.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := members.Delete(member.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 users, got %d", count)
	}

	user := &models.User{Username: "admin"}
	if err := user.SetPassword("hunter2"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByUsername("admin")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if !got.CheckPassword("hunter2") {
		t.Error("expected password check to pass")
	}
	if got.CheckPassword("wrong") {
		t.Error("expected password check to fail for wrong password")
	}

	if _, err := repo.GetByUsername("nobody"); err != gorm.ErrRecordNotFound {
		t.Errorf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}
