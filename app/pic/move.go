package pic

import (
	"errors"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type moveBody struct {
	MovePicList []uint `json:"movePicList"`
	AlbumID     *uint  `json:"albumId"`
}

func PicMove(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data moveBody
	c.ShouldBind(&data)

	if len(data.MovePicList) == 0 || data.AlbumID == nil {
		response.Success(c, response.ErrorPayload("pic.message.picOrAlbumEmpty"))
		return
	}

	if err := d.Pics.Move(data.MovePicList, *data.AlbumID); err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			response.Success(c, response.ErrorPayload("pic.message.albumIsNone"))
			return
		}

		zap.L().Error("Failed to move pics", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, response.SuccessPayload("pic.message.picMoveSuccess"))
}
