// Package dashboard renders the admin overview page data
package dashboard

import (
	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Dashboard(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	data, err := d.Dashboard.Data()
	if err != nil {
		zap.L().Error("Failed to build dashboard data", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, gin.H{
		"dashboard":   data.Dashboard,
		"storage":     data.Storage,
		"imgPieData":  data.ImgPieData,
		"uploadTrend": data.Trend,
		"messageType": "success",
	})
}
