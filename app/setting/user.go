package setting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"yingcang/pic-api/config"
	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"
	"yingcang/pic-api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var avatarExts = []string{"png", "jpg", "jpeg", "gif"}

// GetUserSetting returns the admin profile held in the config file
// plus the avatar location, if one was ever uploaded
func GetUserSetting(c *gin.Context, d *internal.Deps) {
	avatarURL := ""
	for _, ext := range avatarExts {
		if _, err := os.Stat(filepath.Join(util.WebConfDir(), "avatar."+ext)); err == nil {
			avatarURL = "/web/avatar." + ext
			break
		}
	}

	response.Success(c, gin.H{
		"username":      viper.GetString("server.adminUsername"),
		"account":       viper.GetString("server.adminAccount"),
		"userAvatarUrl": avatarURL,
	})
}

type userForm struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// UpdateUserSetting changes the admin display name and password in
// the config file and swaps the avatar. All parts are optional.
func UpdateUserSetting(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var form userForm
	if raw := c.PostForm("form"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form); err != nil {
			response.Error(c, response.ErrorPayload(err.Error()))
			return
		}
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		for _, ext := range avatarExts {
			old := filepath.Join(util.WebConfDir(), "avatar."+ext)
			if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
				zap.L().Error("Failed to remove old avatar", zap.Error(err), zap.String("requestID", requestID))
			}
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
		dest := filepath.Join(util.WebConfDir(), "avatar."+ext)

		if err := c.SaveUploadedFile(fh, dest); err != nil {
			zap.L().Error("Failed to store avatar", zap.Error(err), zap.String("requestID", requestID))
			response.Error(c, response.ErrorPayload(err.Error()))
			return
		}
	}

	if form.Username != nil {
		viper.Set("server.adminUsername", *form.Username)
	}

	if form.Password != nil {
		hash, err := d.Argon.GenerateFromPassword(*form.Password)
		if err != nil {
			zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
			response.Error(c, response.ErrorPayload(err.Error()))
			return
		}

		viper.Set("server.adminPassword", hash)
	}

	if form.Username != nil || form.Password != nil {
		if err := config.Save(); err != nil {
			zap.L().Error("Failed to persist user settings", zap.Error(err), zap.String("requestID", requestID))
			response.Error(c, response.ErrorPayload(err.Error()))
			return
		}
	}

	response.Success(c, gin.H{"messageType": "success"})
}
