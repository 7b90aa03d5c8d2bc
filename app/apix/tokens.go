// Package apix contains the external API group. Unlike the browser
// group it answers boolean envelopes and real 401s, so third-party
// scripts get machine-checkable results.
package apix

import (
	"net/url"

	"yingcang/pic-api/app/auth"
	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminUserID = 1

const tokenTTLDays = 30

type credentialsBody struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// TokenCreate exchanges the admin credentials for a fresh bearer
// token. Issuing revokes every active token of the account, so there
// is at most one live API credential.
func TokenCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data credentialsBody
	if err := c.ShouldBind(&data); err != nil {
		response.Success(c, gin.H{"message": "404"})
		return
	}

	if data.Username == nil || data.Password == nil {
		response.Success(c, gin.H{"message": "username and password is required"})
		return
	}

	username := url.PathEscape(*data.Username)
	password := url.PathEscape(*data.Password)

	if !auth.VerifyAdmin(d, username, password) {
		zap.L().Warn("API token request with bad credentials", zap.String("requestID", requestID))
		response.Success(c, gin.H{"message": "username or password error"})
		return
	}

	token, err := d.Tokens.Issue(adminUserID, tokenTTLDays)
	if err != nil {
		zap.L().Error("Failed to issue API token", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, gin.H{"message": "token generate error"})
		return
	}

	zap.L().Info("API token issued", zap.String("requestID", requestID))
	response.Success(c, gin.H{"token": token.Token})
}

// TokenPurge drops every bearer token, active or not
func TokenPurge(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	if _, err := d.Tokens.PurgeAll(); err != nil {
		zap.L().Error("Failed to purge tokens", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, gin.H{"message": "error"})
		return
	}

	zap.L().Info("All API tokens purged", zap.String("requestID", requestID))
	response.Success(c, gin.H{"message": "success"})
}
