package apix

import (
	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AlbumList(c *gin.Context, d *internal.Deps) {
	entries, err := d.Albums.List()
	if err != nil {
		zap.L().Error("Failed to list albums", zap.Error(err))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, gin.H{"albumList": entries})
}

type albumCreateBody struct {
	AlbumName string `json:"albumName"`
}

func AlbumCreate(c *gin.Context, d *internal.Deps) {
	var data albumCreateBody
	c.ShouldBind(&data)

	if data.AlbumName == "" {
		response.Error(c, false)
		return
	}

	if err := d.Albums.Create(data.AlbumName); err != nil {
		response.Error(c, false)
		return
	}

	response.Success(c, true)
}

type albumDeleteBody struct {
	AlbumID uint `json:"albumId"`
}

func AlbumDelete(c *gin.Context, d *internal.Deps) {
	var data albumDeleteBody
	c.ShouldBind(&data)

	if data.AlbumID == 0 || data.AlbumID == model.DefaultAlbumID {
		response.Error(c, false)
		return
	}

	if err := d.Albums.Delete(data.AlbumID); err != nil {
		response.Error(c, false)
		return
	}

	response.Success(c, true)
}
