// Package util contains any functions used across the application that
// don't match any other package
package util

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ImagesDir returns the image library root, creating it if absent
func ImagesDir() string {
	dir := filepath.Join(viper.GetString("storage.path"), "images")
	os.MkdirAll(dir, 0o777)
	return dir
}

// ThumbnailsDir returns the thumbnail root, a flat directory parallel
// to the date-partitioned originals
func ThumbnailsDir() string {
	dir := filepath.Join(ImagesDir(), "thumbnail")
	os.MkdirAll(dir, 0o777)
	return dir
}

// UploadDir holds transient bulk-transfer artifacts (SQL dumps, the
// export ZIP, uploaded archives)
func UploadDir() string {
	dir := filepath.Join(viper.GetString("storage.path"), "upload")
	os.MkdirAll(dir, 0o777)
	return dir
}

// WebConfDir holds the branding assets (logo, login cover, background)
func WebConfDir() string {
	dir := filepath.Join(viper.GetString("storage.path"), "web-conf")
	os.MkdirAll(dir, 0o777)
	return dir
}

// DatePath returns the date-partitioned relative directory for an
// upload moment, e.g. "2025/01/15". Always slash-separated so the
// value stored in the database is portable.
func DatePath(t time.Time) string {
	return t.Format("2006/01/02")
}
