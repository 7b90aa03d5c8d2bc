package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"yingcang/pic-api/internal/service"

	"github.com/gin-gonic/gin"
)

// NewTokenAuth resolves a persisted bearer token into a principal.
// The credential may arrive in the Authorization header, the `token`
// query parameter, or a `token` field in a JSON body; the first
// non-empty source wins.
func NewTokenAuth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := extractBearer(c)
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token is missing",
			})
			return
		}

		t := tokens.Validate(secret)
		if t == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set("apiToken", t)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if q := c.Query("token"); q != "" {
		return q
	}

	// Peek the JSON body without consuming it for the handler
	if c.Request.Body != nil && strings.Contains(c.ContentType(), "application/json") {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ""
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		var body struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			return body.Token
		}
	}

	return ""
}
