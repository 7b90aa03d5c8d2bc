package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/util"
)

func TestAlbumListInsertsFavourites(t *testing.T) {
	db := newTestDB(t)
	s := NewAlbumService(db)

	if err := s.Create("holiday"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pics := []model.Pic{
		{UUID: "a", PicName: "a.jpg", PicSuffix: ".jpg", AlbumID: model.DefaultAlbumID, PicLove: 1},
		{UUID: "b", PicName: "b.jpg", PicSuffix: ".jpg", AlbumID: model.DefaultAlbumID, PicLove: 1},
		{UUID: "c", PicName: "c.jpg", PicSuffix: ".jpg", AlbumID: model.DefaultAlbumID},
	}
	if err := db.Create(&pics).Error; err != nil {
		t.Fatalf("Failed to seed pics: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	if entries[0].AID != model.DefaultAlbumID {
		t.Errorf("First entry aid = %d, want default album", entries[0].AID)
	}
	if entries[0].PicCount != 3 {
		t.Errorf("Default album pic count = %d, want 3", entries[0].PicCount)
	}

	if entries[1].AID != model.FavouritesAlbumID || entries[1].AlbumName != "love" {
		t.Errorf("Second entry = %+v, want the virtual favourites album", entries[1])
	}
	if entries[1].PicCount != 2 {
		t.Errorf("Favourites count = %d, want 2", entries[1].PicCount)
	}

	if entries[2].AlbumName != "holiday" {
		t.Errorf("Third entry = %+v, want holiday", entries[2])
	}
	if entries[2].AID == 0 {
		t.Errorf("holiday aid = 0, a stored album must keep its real id")
	}
}

func TestAlbumCreateDuplicate(t *testing.T) {
	s := NewAlbumService(newTestDB(t))

	if err := s.Create("twice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.Create("twice"); !errors.Is(err, ErrAlbumExists) {
		t.Errorf("Create() = %v, want ErrAlbumExists", err)
	}
}

func TestAlbumRename(t *testing.T) {
	db := newTestDB(t)
	s := NewAlbumService(db)

	if err := s.Create("old"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var album model.Album
	if err := db.Where("album_name = ?", "old").First(&album).Error; err != nil {
		t.Fatalf("Failed to load album: %v", err)
	}

	if err := s.Rename(99, "anything"); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("Rename(99) = %v, want ErrAlbumNotFound", err)
	}

	if err := s.Rename(album.AID, "default"); !errors.Is(err, ErrAlbumExists) {
		t.Errorf("Rename to taken name = %v, want ErrAlbumExists", err)
	}

	if err := s.Rename(album.AID, "new"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	var renamed model.Album
	if err := db.Where("aid = ?", album.AID).First(&renamed).Error; err != nil {
		t.Fatalf("Failed to reload album: %v", err)
	}
	if renamed.AlbumName != "new" {
		t.Errorf("AlbumName = %q, want new", renamed.AlbumName)
	}
}

func TestAlbumDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	s := NewAlbumService(db)

	album := model.Album{AlbumName: "doomed"}
	if err := db.Create(&album).Error; err != nil {
		t.Fatalf("Failed to create album: %v", err)
	}

	pic := model.Pic{
		UUID:         "doomed-pic",
		PicName:      "doomed-pic.jpg",
		PicSuffix:    ".jpg",
		AlbumID:      album.AID,
		RelativePath: "2026/01/01",
	}
	if err := db.Create(&pic).Error; err != nil {
		t.Fatalf("Failed to create pic: %v", err)
	}

	dir := filepath.Join(util.ImagesDir(), "2026", "01", "01")
	if err := os.MkdirAll(dir, 0o777); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	file := filepath.Join(dir, pic.FileName())
	if err := os.WriteFile(file, []byte("x"), 0o666); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := s.Delete(album.AID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var rows int64
	db.Model(model.Pic{}).Where("album_id = ?", album.AID).Count(&rows)
	if rows != 0 {
		t.Errorf("Expected no pic rows, got %d", rows)
	}

	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Errorf("Expected pic file to be removed, stat err = %v", err)
	}

	// Unknown album is a quiet no-op
	if err := s.Delete(1234); err != nil {
		t.Errorf("Delete of unknown album = %v, want nil", err)
	}
}
