// Package album contains the browser-facing album handlers
package album

import (
	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AlbumList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	entries, err := d.Albums.List()
	if err != nil {
		zap.L().Error("Failed to list albums", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, gin.H{"albumList": entries})
}
