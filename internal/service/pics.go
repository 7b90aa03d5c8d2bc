package service

import (
	"errors"
	"os"
	"path/filepath"

	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrPicNotFound = errors.New("pic does not exist")

// PicService implements the picture list and mutation operations
type PicService struct {
	DB *gorm.DB
}

func NewPicService(db *gorm.DB) *PicService {
	return &PicService{DB: db}
}

func (s *PicService) Count() (int64, error) {
	var n int64
	err := s.DB.Model(model.Pic{}).Count(&n).Error
	return n, err
}

// PicListQuery selects a page of pictures. AlbumID 0 means the
// virtual favourites album.
type PicListQuery struct {
	Page    int
	PerPage int
	AlbumID uint
	Order   string
	Keyword string
}

type PicListItem struct {
	model.Pic
	URL          string `json:"url"`
	AlbumName    string `json:"albumName"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type PicList struct {
	Page    int           `json:"page"`
	PerPage int           `json:"perPage"`
	Total   int64         `json:"total"`
	Images  []PicListItem `json:"images"`
}

var orderColumns = map[string]string{
	"newest":   "upload_time DESC",
	"earliest": "upload_time ASC",
	"utmost":   "pic_file_size DESC",
	"least":    "pic_file_size ASC",
}

func (s *PicService) List(q PicListQuery) (*PicList, error) {
	base := s.DB.Model(model.Pic{})

	if q.AlbumID != model.FavouritesAlbumID {
		var album model.Album
		if err := s.DB.Where("aid = ?", q.AlbumID).First(&album).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAlbumNotFound
			}
			return nil, err
		}

		base = base.Where("album_id = ?", q.AlbumID)
	} else {
		base = base.Where("pic_love = ?", 1)
	}

	if q.Keyword != "" {
		base = base.Where("pic_desc LIKE ?", "%"+q.Keyword+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	order, ok := orderColumns[q.Order]
	if !ok {
		order = orderColumns["newest"]
	}

	var pics []model.Pic
	err := base.
		Order(order).
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&pics).
		Error
	if err != nil {
		return nil, err
	}

	names, err := s.albumNames()
	if err != nil {
		return nil, err
	}

	items := make([]PicListItem, 0, len(pics))
	for _, p := range pics {
		items = append(items, PicListItem{
			Pic:          p,
			URL:          "/i/" + p.FileName(),
			AlbumName:    names[p.AlbumID],
			ThumbnailURL: "/thumbnail/" + p.FileName(),
		})
	}

	return &PicList{
		Page:    q.Page,
		PerPage: q.PerPage,
		Total:   total,
		Images:  items,
	}, nil
}

func (s *PicService) albumNames() (map[uint]string, error) {
	var albums []model.Album
	if err := s.DB.Find(&albums).Error; err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(albums))
	for _, a := range albums {
		names[a.AID] = a.AlbumName
	}

	return names, nil
}

// PicUpdate carries the optional mutations of a single pic. Nil
// fields are left untouched.
type PicUpdate struct {
	Description *string `json:"description"`
	Rename      *string `json:"rename"`
	Love        *int    `json:"love"`
}

func (s *PicService) Update(pid uint, value PicUpdate) error {
	var pic model.Pic
	if err := s.DB.Where("pid = ?", pid).First(&pic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPicNotFound
		}
		return err
	}

	updates := map[string]any{}
	if value.Description != nil {
		updates["pic_desc"] = *value.Description
	}
	if value.Rename != nil {
		updates["pic_name"] = *value.Rename
	}
	if value.Love != nil {
		updates["pic_love"] = *value.Love
	}

	if len(updates) == 0 {
		return nil
	}

	return s.DB.Model(&pic).Updates(updates).Error
}

// Delete removes the given pics: row first, then the backing original
// and its thumbnail. Unknown ids are skipped.
func (s *PicService) Delete(pids []uint) error {
	for _, pid := range pids {
		var pic model.Pic
		if err := s.DB.Where("pid = ?", pid).First(&pic).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}

		if err := s.DB.Delete(&pic).Error; err != nil {
			return err
		}

		removePicFiles(&pic)
	}

	return nil
}

// Move assigns the pics to another album. Album id 0 flags them as
// favourites instead of moving them.
func (s *PicService) Move(pids []uint, albumID uint) error {
	if albumID == model.FavouritesAlbumID {
		return s.DB.
			Model(model.Pic{}).
			Where("pid IN ?", pids).
			Update("pic_love", 1).
			Error
	}

	var album model.Album
	if err := s.DB.Where("aid = ?", albumID).First(&album).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlbumNotFound
		}
		return err
	}

	return s.DB.
		Model(model.Pic{}).
		Where("pid IN ?", pids).
		Update("album_id", albumID).
		Error
}

// removePicFiles deletes the stored original and thumbnail of a pic.
// Missing files are fine, the row was authoritative.
func removePicFiles(pic *model.Pic) {
	original := filepath.Join(util.ImagesDir(), filepath.FromSlash(pic.RelativePath), pic.FileName())
	if err := os.Remove(original); err != nil && !os.IsNotExist(err) {
		zap.L().Error("Failed to remove pic file", zap.String("path", original), zap.Error(err))
	}

	thumb := filepath.Join(util.ThumbnailsDir(), pic.FileName())
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		zap.L().Error("Failed to remove thumbnail", zap.String("path", thumb), zap.Error(err))
	}
}
