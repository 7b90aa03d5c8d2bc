package album

import (
	"errors"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type renameBody struct {
	AID    uint   `json:"aid"`
	Rename string `json:"rename"`
}

func AlbumRename(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data renameBody
	c.ShouldBind(&data)

	if data.Rename == "" || data.AID == 0 {
		response.Success(c, response.ErrorPayload("album.message.albumNameIsNone"))
		return
	}

	if err := d.Albums.Rename(data.AID, data.Rename); err != nil {
		switch {
		case errors.Is(err, service.ErrAlbumNotFound):
			response.Success(c, response.ErrorPayload("album.message.albumDoesNotExist"))
		case errors.Is(err, service.ErrAlbumExists):
			response.Success(c, response.ErrorPayload("album.message.albumAlreadyExists"))
		default:
			zap.L().Error("Failed to rename album", zap.Error(err), zap.String("requestID", requestID))
			response.Success(c, response.ErrorPayload(err.Error()))
		}
		return
	}

	response.Success(c, response.SuccessPayload("album.message.albumNameModifiedSuccessfully"))
}
