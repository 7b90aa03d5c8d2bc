package album

import (
	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type deleteBody struct {
	AID uint `json:"aid"`
}

// AlbumDelete removes an album with all its pictures. The default
// album can't be deleted.
func AlbumDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data deleteBody
	c.ShouldBind(&data)

	if data.AID == 0 || data.AID == model.DefaultAlbumID {
		response.Success(c, response.ErrorPayload("album.message.albumIdIsNull"))
		return
	}

	if err := d.Albums.Delete(data.AID); err != nil {
		zap.L().Error("Failed to delete album", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	zap.L().Info("Album deleted", zap.Uint("aid", data.AID), zap.String("requestID", requestID))
	response.Success(c, response.SuccessPayload("album.message.albumIsDeleted"))
}
