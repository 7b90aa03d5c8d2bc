// Package db contains the database connection and first-run setup
package db

import (
	"fmt"
	"path/filepath"

	"yingcang/pic-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database. A PostgreSQL server is used when
// sql.host is configured; otherwise the app runs in single-binary mode
// on a local SQLite file.
func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	if host := viper.GetString("sql.host"); host != "" && host != "none" {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			host,
			viper.GetInt("sql.port"),
			viper.GetString("sql.username"),
			viper.GetString("sql.password"),
			viper.GetString("sql.database"),
		)
		dial = postgres.Open(dsn)
	} else {
		dial = sqlite.Open(filepath.Join(viper.GetString("storage.path"), "database.db"))
	}

	db, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := Seed(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the four tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}

// Seed inserts the default album and the initial site configuration
// on first run. Existing rows are left alone.
func Seed(db *gorm.DB) error {
	var albums int64
	if err := db.Model(model.Album{}).Count(&albums).Error; err != nil {
		return err
	}

	if albums == 0 {
		if err := db.Create(&model.Album{AlbumName: "default"}).Error; err != nil {
			return fmt.Errorf("failed to create default album, %w", err)
		}
	}

	var configs int64
	if err := db.Model(model.Config{}).Count(&configs).Error; err != nil {
		return err
	}

	if configs == 0 {
		defaults := []model.Config{
			{Name: "app_name", Value: "Ying-Cang"},
			{Name: "app_version", Value: viper.GetString("server.version")},
			{Name: "icp_no", Value: ""},
			{Name: model.ConfigEnableAPI, Value: "1"},
			{Name: "main_title", Value: "Your private and secure image vault"},
			{Name: "sub_title_01", Value: "Upload your pictures in any common format"},
			{Name: "sub_title_02", Value: "Share your library with the companion app"},
			{Name: "web_title", Value: "Ying-Cang image vault"},
			{Name: "footer_text", Value: "Copyright © 2025 - Present Ying-Cang. All rights reserved."},
		}

		if err := db.Create(&defaults).Error; err != nil {
			return fmt.Errorf("failed to seed configs, %w", err)
		}
	}

	return nil
}
