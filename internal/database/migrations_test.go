package database

import (
	"path/filepath"
	"testing"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/workforce"
	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestApplyMigrationsBackfillsManagerFlag(testContext *testing.T) {
	tempDir := testContext.TempDir()
	databasePath := filepath.Join(tempDir, "migration.db")

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}

	models := append(workforce.Models(), &migrationRecord{})
	if err := database.AutoMigrate(models...); err != nil {
		testContext.Fatalf("failed to migrate schema: %v", err)
	}

	seed := []interface{}{
		&workforce.User{UserID: "M1", Name: "Morgan Vale", Email: "morgan.vale@example.com", IsManager: false},
		&workforce.User{UserID: "E1", Name: "Ira Chen", Email: "ira.chen@example.com", IsManager: false},
		&workforce.ManagerEmployee{ManagerID: "M1", EmployeeID: "E1"},
	}
	for _, row := range seed {
		if err := database.Create(row).Error; err != nil {
			testContext.Fatalf("failed to seed %T: %v", row, err)
		}
	}

	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("failed to apply migrations: %v", err)
	}

	var manager workforce.User
	if err := database.Where("user_id = ?", "M1").Take(&manager).Error; err != nil {
		testContext.Fatalf("failed to reload manager: %v", err)
	}
	if !manager.IsManager {
		testContext.Fatalf("expected mapped manager to gain is_manager flag")
	}

	var employee workforce.User
	if err := database.Where("user_id = ?", "E1").Take(&employee).Error; err != nil {
		testContext.Fatalf("failed to reload employee: %v", err)
	}
	if employee.IsManager {
		testContext.Fatalf("employee without mapping rows must stay non-manager")
	}

	var record migrationRecord
	if err := database.Where("name = ?", migrationBackfillManagerFlag).Take(&record).Error; err != nil {
		testContext.Fatalf("expected migration record to be created: %v", err)
	}
	if record.AppliedAtSeconds == 0 {
		testContext.Fatalf("expected migration timestamp to be set")
	}
}

func TestApplyMigrationsIsIdempotent(testContext *testing.T) {
	tempDir := testContext.TempDir()
	databasePath := filepath.Join(tempDir, "idempotent.db")

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}
	models := append(workforce.Models(), &migrationRecord{})
	if err := database.AutoMigrate(models...); err != nil {
		testContext.Fatalf("failed to migrate schema: %v", err)
	}

	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("first application failed: %v", err)
	}
	if err := applyMigrations(database, zap.NewNop()); err != nil {
		testContext.Fatalf("second application failed: %v", err)
	}

	var count int64
	if err := database.Model(&migrationRecord{}).Count(&count).Error; err != nil {
		testContext.Fatalf("failed to count migration records: %v", err)
	}
	if count != 1 {
		testContext.Fatalf("expected exactly one ledger row, got %d", count)
	}
}

func TestOpenRejectsUnknownDriver(testContext *testing.T) {
	if _, err := Open("oracle", "dsn", zap.NewNop()); err == nil {
		testContext.Fatalf("expected unsupported driver error")
	}
	if _, err := Open("sqlite", "   ", zap.NewNop()); err == nil {
		testContext.Fatalf("expected missing dsn error")
	}
}

func TestOpenSQLiteInitializesSchema(testContext *testing.T) {
	tempDir := testContext.TempDir()
	databasePath := filepath.Join(tempDir, "open.db")

	database, err := Open("sqlite", databasePath, zap.NewNop())
	if err != nil {
		testContext.Fatalf("failed to open database: %v", err)
	}

	if err := database.Create(&workforce.User{UserID: "E1", Name: "Ira Chen", Email: "ira.chen@example.com"}).Error; err != nil {
		testContext.Fatalf("schema not usable after open: %v", err)
	}
	var record migrationRecord
	if err := database.Where("name = ?", migrationBackfillManagerFlag).Take(&record).Error; err != nil {
		testContext.Fatalf("expected migrations applied during open: %v", err)
	}
}
