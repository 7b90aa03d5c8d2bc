package apix

import (
	"errors"
	"strconv"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Upload is the external variant of the upload endpoint: validation
// failures collapse to a boolean instead of i18n message keys
func Upload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, false)
		return
	}

	if err := service.CheckFile(fh); err != nil {
		response.Error(c, false)
		return
	}

	albumID, _ := strconv.Atoi(c.PostForm("albumId"))

	result, err := d.Uploader.Do(fh, uint(albumID))
	if err != nil {
		zap.L().Error("API upload failed", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, false)
		return
	}

	response.Success(c, result)
}

func PicList(c *gin.Context, d *internal.Deps) {
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

		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, list)
}

type picDeleteBody struct {
	DeletePicList []uint `json:"deletePicList"`
}

func PicDelete(c *gin.Context, d *internal.Deps) {
	var data picDeleteBody
	c.ShouldBind(&data)

	if len(data.DeletePicList) == 0 {
		response.Error(c, false)
		return
	}

	if err := d.Pics.Delete(data.DeletePicList); err != nil {
		response.Error(c, false)
		return
	}

	response.Success(c, true)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}

	return v
}
