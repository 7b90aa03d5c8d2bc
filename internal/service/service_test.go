package service

import (
	"path/filepath"
	"testing"

	"yingcang/pic-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database and points the storage
// root at a temp dir so file-producing code stays inside the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dir := t.TempDir()
	viper.Set("storage.path", dir)

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	if err := db.Create(&model.Album{AlbumName: "default"}).Error; err != nil {
		t.Fatalf("Failed to seed default album: %v", err)
	}

	return db
}
