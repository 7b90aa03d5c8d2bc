// Package pic contains the browser-facing picture handlers
package pic

import (
	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func PicCount(c *gin.Context, d *internal.Deps) {
	n, err := d.Pics.Count()
	if err != nil {
		zap.L().Error("Failed to count pics", zap.Error(err))
		response.Success(c, gin.H{"message": err.Error()})
		return
	}

	response.Success(c, gin.H{"picCount": n})
}
