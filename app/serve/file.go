// Package serve hands out stored originals, thumbnails and the web
// branding assets
package serve

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/util"

	"github.com/gin-gonic/gin"
)

// File serves an original by its public filename (<uuid><ext>). The
// row is authoritative for the on-disk location, so unknown uuids and
// missing files are both plain 404s.
func File(c *gin.Context, d *internal.Deps) {
	pic, ok := resolve(c, d)
	if !ok {
		return
	}

	path := filepath.Join(util.ImagesDir(), filepath.FromSlash(pic.RelativePath), pic.FileName())
	if _, err := os.Stat(path); err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	c.File(path)
}

// Thumbnail serves the reduced rendition, stored flat under the
// thumbnail root with the same public filename
func Thumbnail(c *gin.Context, d *internal.Deps) {
	pic, ok := resolve(c, d)
	if !ok {
		return
	}

	path := filepath.Join(util.ThumbnailsDir(), pic.FileName())
	if _, err := os.Stat(path); err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	c.File(path)
}

func resolve(c *gin.Context, d *internal.Deps) (*model.Pic, bool) {
	filename := c.Param("filename")
	uuid := strings.TrimSuffix(filename, filepath.Ext(filename))

	var pic model.Pic
	if err := d.DB.Where("uuid = ?", uuid).First(&pic).Error; err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}

	return &pic, true
}
