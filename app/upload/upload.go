// Package upload contains the browser-facing upload handler
package upload

import (
	"errors"
	"strconv"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Upload stores one multipart file into the album given by the
// albumId form field. Validation failures and pipeline errors ride
// inside a success envelope as i18n message keys.
func Upload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, gin.H{"message": "upload.message.noFiles"})
		return
	}

	if err := service.CheckFile(fh); err != nil {
		response.Error(c, gin.H{"message": checkMessage(err)})
		return
	}

	albumID, _ := strconv.Atoi(c.PostForm("albumId"))

	result, err := d.Uploader.Do(fh, uint(albumID))
	if err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			response.Success(c, response.ErrorPayload("upload.message.AlbumDoesNotExist"))
			return
		}

		zap.L().Error("Upload failed", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	zap.L().Info("Upload finished",
		zap.String("filename", result.Filename),
		zap.Int("albumID", albumID),
		zap.String("requestID", requestID),
	)
	response.Success(c, result)
}

func checkMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNoFile):
		return "upload.message.noFiles"
	case errors.Is(err, service.ErrEmptyFilename):
		return "upload.message.fileNameIsEmpty"
	default:
		return "upload.message.fileExtensionNotAllowed"
	}
}
