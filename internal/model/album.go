package model

import "time"

// Reserved album ids. Album 1 is the default album every upload falls
// back to and can never be deleted or renamed away. Album 0 is not a
// real row: it is the virtual favourites album synthesized at read
// time from the pic_love flag.
const (
	FavouritesAlbumID = 0
	DefaultAlbumID    = 1
)

type Album struct {
	AID       uint      `gorm:"column:aid;primaryKey;autoIncrement" json:"aid"`
	AlbumName string    `gorm:"size:200" json:"albumName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Album) TableName() string {
	return "albums"
}
