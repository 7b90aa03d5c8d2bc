package pic

import (
	"errors"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updateBody struct {
	PID   uint               `json:"pid"`
	Value *service.PicUpdate `json:"value"`
}

func PicUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data updateBody
	c.ShouldBind(&data)

	if data.PID == 0 || data.Value == nil {
		response.Success(c, response.ErrorPayload("pic.message.picNameEmpty"))
		return
	}

	if err := d.Pics.Update(data.PID, *data.Value); err != nil {
		if errors.Is(err, service.ErrPicNotFound) {
			response.Success(c, response.ErrorPayload("pic.message.picIsNone"))
			return
		}

		zap.L().Error("Failed to update pic", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, response.SuccessPayload("pic.message.picUpdateSuccess"))
}
