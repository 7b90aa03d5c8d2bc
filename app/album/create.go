package album

import (
	"errors"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createBody struct {
	AlbumName string `json:"albumName"`
}

func AlbumCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data createBody
	c.ShouldBind(&data)

	if data.AlbumName == "" {
		response.Success(c, response.ErrorPayload("album.message.albumNameIsNone"))
		return
	}

	if err := d.Albums.Create(data.AlbumName); err != nil {
		if errors.Is(err, service.ErrAlbumExists) {
			response.Success(c, response.ErrorPayload("album.message.albumAlreadyExists"))
			return
		}

		zap.L().Error("Failed to create album", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	zap.L().Info("Album created", zap.String("albumName", data.AlbumName), zap.String("requestID", requestID))
	response.Success(c, response.SuccessPayload("album.message.albumCreatedSuccessfully"))
}
