package service

import (
	"errors"

	"yingcang/pic-api/internal/model"

	"gorm.io/gorm"
)

var (
	ErrAlbumExists   = errors.New("album already exists")
	ErrAlbumReserved = errors.New("album is reserved")
)

// AlbumService implements album CRUD. The name-uniqueness checks are
// check-then-insert and can race under concurrent requests; accepted
// for a single-admin deployment.
type AlbumService struct {
	DB *gorm.DB
}

func NewAlbumService(db *gorm.DB) *AlbumService {
	return &AlbumService{DB: db}
}

// AlbumEntry is one row of the album listing. AID needs the explicit
// column tag because gorm's naming would scan it from a_id, not the
// aid alias the list query selects.
type AlbumEntry struct {
	AID       uint   `gorm:"column:aid" json:"aid"`
	AlbumName string `json:"albumName"`
	PicCount  int64  `json:"picCount"`
}

// List returns every album with its pic count, with the virtual
// favourites album (id 0, counted from the pic_love flag) inserted
// after the default album.
func (s *AlbumService) List() ([]AlbumEntry, error) {
	var entries []AlbumEntry

	err := s.DB.
		Model(model.Album{}).
		Select("albums.aid AS aid, albums.album_name AS album_name, COUNT(pics.pid) AS pic_count").
		Joins("LEFT JOIN pics ON pics.album_id = albums.aid").
		Group("albums.aid, albums.album_name").
		Order("albums.aid").
		Scan(&entries).
		Error
	if err != nil {
		return nil, err
	}

	var loved int64
	err = s.DB.
		Model(model.Pic{}).
		Where("pic_love = ?", 1).
		Count(&loved).
		Error
	if err != nil {
		return nil, err
	}

	favourites := AlbumEntry{
		AID:       model.FavouritesAlbumID,
		AlbumName: "love",
		PicCount:  loved,
	}

	pos := 1
	if len(entries) < 1 {
		pos = 0
	}

	entries = append(entries[:pos], append([]AlbumEntry{favourites}, entries[pos:]...)...)

	return entries, nil
}

func (s *AlbumService) Create(name string) error {
	var existing model.Album
	err := s.DB.Where("album_name = ?", name).First(&existing).Error
	if err == nil {
		return ErrAlbumExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.DB.Create(&model.Album{AlbumName: name}).Error
}

func (s *AlbumService) Rename(aid uint, rename string) error {
	var album model.Album
	if err := s.DB.Where("aid = ?", aid).First(&album).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlbumNotFound
		}
		return err
	}

	var taken model.Album
	err := s.DB.Where("album_name = ?", rename).First(&taken).Error
	if err == nil {
		return ErrAlbumExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.DB.Model(&album).Update("album_name", rename).Error
}

// Delete removes an album and cascades to every pic in it, rows and
// backing files both. The default album is refused by the handlers
// before this is reached.
func (s *AlbumService) Delete(aid uint) error {
	var album model.Album
	if err := s.DB.Where("aid = ?", aid).First(&album).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Deleting a missing album is a no-op, same as before
			return nil
		}
		return err
	}

	var pics []model.Pic
	if err := s.DB.Where("album_id = ?", aid).Find(&pics).Error; err != nil {
		return err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&album).Error; err != nil {
			return err
		}

		return tx.Where("album_id = ?", aid).Delete(model.Pic{}).Error
	})
	if err != nil {
		return err
	}

	for i := range pics {
		removePicFiles(&pics[i])
	}

	return nil
}
