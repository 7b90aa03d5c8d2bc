package pic

import (
	"errors"
	"strconv"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func PicList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	q := service.PicListQuery{
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "perPage", 30),
		AlbumID: uint(intQuery(c, "albumId", 1)),
		Order:   c.DefaultQuery("order", "newest"),
		Keyword: c.Query("keyword"),
	}

	list, err := d.Pics.List(q)
	if err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			response.Success(c, response.ErrorPayload("pic.message.albumIsNone"))
			return
		}

		zap.L().Error("Failed to list pics", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, list)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}

	return v
}
