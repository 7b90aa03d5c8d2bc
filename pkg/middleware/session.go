package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewSessionAuth verifies the signed session credential carried in the
// Authorization header. Session tokens are stateless, so the only
// checks are the signature and the expiry claim.
func NewSessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "token.missing",
			})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}

			return []byte(viper.GetString("server.key")), nil
		})
		if err != nil {
			msg := "token.invalid"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token.expired"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": msg,
			})

			zap.L().Debug("Session token rejected", zap.Error(err))
			return
		}

		if !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "token.invalid",
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "token.invalid",
			})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("username", sub)
		}

		c.Next()
	}
}
