// Package middleware contains any custom middleware used in the app
package middleware

import (
	"yingcang/pic-api/pkg/util"

	"github.com/gin-gonic/gin"
)

// NewRequestIDMiddleware tags each request with a short random id,
// stored in the context for log correlation and echoed back in the
// X-Request-ID header so clients can quote it in bug reports
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := util.RandStr(10)
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
