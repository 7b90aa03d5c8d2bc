// Package model defines database models
package model

import "time"

// Pic is a single stored picture. The database row is the source of
// truth; the file on disk lives under <images>/<RelativePath>/<UUID><PicSuffix>
// with a same-named thumbnail under the thumbnail directory.
type Pic struct {
	PID uint `gorm:"column:pid;primaryKey;autoIncrement" json:"pid"`

	// Content identifier derived from the sanitized original filename plus
	// a millisecond timestamp. Used as the permanent storage key so the
	// stored file name is decoupled from whatever the client sent
	UUID string `gorm:"column:uuid;size:200" json:"uuid"`

	PicName         string `gorm:"size:200" json:"picName"`
	PicOriginalName string `gorm:"size:200" json:"picOriginalName"`
	PicFileSize     int64  `json:"picFileSize"`
	PicType         string `gorm:"size:20" json:"picType"`
	// Pixel dimensions formatted as "WxH"
	PicSize      string    `gorm:"size:20" json:"picSize"`
	PicSuffix    string    `gorm:"size:20" json:"picSuffix"`
	UploadTime   time.Time `json:"uploadTime"`
	PicDesc      string    `gorm:"size:200" json:"picDesc"`
	AlbumID      uint      `gorm:"default:1" json:"albumId"`
	PicLove      int       `json:"picLove"`
	RelativePath string    `gorm:"size:200" json:"relativePath"`
}

func (Pic) TableName() string {
	return "pics"
}

// FileName returns the on-disk name of the original and its thumbnail
func (p *Pic) FileName() string {
	return p.UUID + p.PicSuffix
}
