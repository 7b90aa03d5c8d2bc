package internal

import (
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Argon     *security.ArgonHash
	Tokens    *service.TokenService
	Uploader  *service.Uploader
	Pics      *service.PicService
	Albums    *service.AlbumService
	Exporter  *service.Exporter
	SQL       *service.SQLTransfer
	Dashboard *service.DashboardService
}

// Rebind points every service at a new database connection. Used by
// the install flow when the server switches from the bundled SQLite
// file to the configured server.
func (d *Deps) Rebind(db *gorm.DB) {
	d.DB = db
	d.Tokens.DB = db
	d.Uploader.DB = db
	d.Pics.DB = db
	d.Albums.DB = db
	d.SQL.DB = db
	d.Dashboard.DB = db
}
