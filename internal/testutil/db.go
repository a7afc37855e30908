package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"jobtracker/internal/database"
	"jobtracker/internal/database/migrations"
)

// NewTestDB opens a SQLite database in a temp dir with the real migrations
// applied. It is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"), "silent")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := migrations.Up(sqlDB, database.Dialect(db)); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}
