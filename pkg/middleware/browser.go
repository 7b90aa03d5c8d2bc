package middleware

import (
	"strings"

	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// NewBrowserOnly keeps non-browser clients off the session routes by
// checking for "Mozilla" in the User-Agent. Trivially spoofable, so
// this is a speed bump against naive scripts, not a security boundary.
func NewBrowserOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("User-Agent"), "Mozilla") {
			response.Error(c, "404")
			c.Abort()
			return
		}

		c.Next()
	}
}
