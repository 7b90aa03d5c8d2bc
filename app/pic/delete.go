package pic

import (
	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type deleteBody struct {
	DeletePicList []uint `json:"deletePicList"`
}

func PicDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data deleteBody
	c.ShouldBind(&data)

	if len(data.DeletePicList) == 0 {
		response.Success(c, response.ErrorPayload("pic.message.picEmpty"))
		return
	}

	if err := d.Pics.Delete(data.DeletePicList); err != nil {
		zap.L().Error("Failed to delete pics", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	zap.L().Info("Pics deleted", zap.Int("count", len(data.DeletePicList)), zap.String("requestID", requestID))
	response.Success(c, response.SuccessPayload("pic.message.picDeleteSuccess"))
}
