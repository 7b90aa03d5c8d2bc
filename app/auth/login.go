// Package auth implements the browser login endpoint
package auth

import (
	"net/url"
	"time"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type loginBody struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// Login verifies the admin credentials against the config file and
// hands out a signed session token. Failed attempts answer inside a
// success envelope so the client can show the i18n message; only a
// missing body is a transport-level error.
func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		response.Error(c, "404")
		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Username == nil || data.Password == nil {
		response.Error(c, "404")
		return
	}

	// Credentials are percent-encoded before comparison, same as the
	// install flow stores them
	username := url.PathEscape(*data.Username)
	password := url.PathEscape(*data.Password)

	if !VerifyAdmin(d, username, password) {
		zap.L().Warn("Login failed", zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload("login.message.loginFailed"))
		return
	}

	token, err := makeSessionToken()
	if err != nil {
		zap.L().Error("Failed to sign session token", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload("login.message.loginFailed"))
		return
	}

	zap.L().Info("Login succeeded", zap.String("requestID", requestID))
	response.Success(c, gin.H{
		"token":       token,
		"message":     "login.message.loginSuccess",
		"messageType": "success",
	})
}

// VerifyAdmin checks the single admin account held in the config file
func VerifyAdmin(d *internal.Deps, username, password string) bool {
	if username != viper.GetString("server.adminAccount") {
		return false
	}

	ok, err := d.Argon.VerifyPasswd(password, viper.GetString("server.adminPassword"))
	if err != nil {
		zap.L().Error("Failed to verify password", zap.Error(err))
		return false
	}

	return ok
}

func makeSessionToken() (string, error) {
	days := viper.GetInt("server.tokenTime")
	if days <= 0 {
		days = 1
	}

	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour * 24 * time.Duration(days)).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("server.key")))
}
