package middleware

import (
	"net/http"
	"strings"

	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// BodySizeLimiter refuses requests whose declared length exceeds
// maxBytes and caps the actual read for clients that lie about it
func BodySizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fast reject on the declared length
		if c.Request.ContentLength > maxBytes {
			response.Error(c, response.ErrorPayload("request body too large"))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()

		if last := c.Errors.Last(); last != nil {
			if strings.Contains(last.Error(), "http: request body too large") {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{
					"message": "request body too large",
				})
			}
		}
	}
}
