package middleware

import (
	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// NewAPIGate refuses external API calls while the admin has the API
// switched off. The refusal travels as a success envelope with an
// error payload so API clients always get a parseable body. Runs
// before token auth. Reads through Deps so the install flow's
// database switchover reaches the gate too.
func NewAPIGate(d *internal.Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg model.Config
		err := d.DB.Where("name = ?", model.ConfigEnableAPI).First(&cfg).Error

		if err != nil || cfg.Value != "1" {
			response.Success(c, response.ErrorPayload("API is not open"))
			c.Abort()
			return
		}

		c.Next()
	}
}
