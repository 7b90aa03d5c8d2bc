// Package setting contains the admin settings handlers: site
// branding, the admin account and the bulk export/import flows.
package setting

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/response"
	"yingcang/pic-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetWebSetting returns the public site configuration plus the
// branding asset locations. Unauthenticated: the login page needs it.
func GetWebSetting(c *gin.Context, d *internal.Deps) {
	var rows []model.Config
	if err := d.DB.Find(&rows).Error; err != nil {
		zap.L().Error("Failed to load web settings", zap.Error(err))
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}

	cfg := make(map[string]string, len(rows))
	for _, r := range rows {
		cfg[r.Name] = r.Value
	}

	response.Success(c, gin.H{
		"site": gin.H{
			"name":       cfg["app_name"],
			"appVersion": cfg["app_version"],
			"webTitle":   cfg["web_title"],
			"mainTitle":  cfg["main_title"],
			"subTitle01": cfg["sub_title_01"],
			"subTitle02": cfg["sub_title_02"],
			"footerText": cfg["footer_text"],
			"icpNo":      cfg["icp_no"],
			"useAPI":     cfg[model.ConfigEnableAPI] == "1",
		},
		"webLogoUrl":       "/web/logo.png",
		"webSVGLogoUrl":    "/web/logo.svg",
		"webLoginBgUrl":    "/web/login-bg.jpg",
		"webBackgroundUrl": "/web/background.jpg",
	})
}

type siteForm struct {
	Name       *string `json:"name"`
	IcpNo      *string `json:"icpNo"`
	UseAPI     any     `json:"useAPI"`
	WebTitle   *string `json:"webTitle"`
	MainTitle  *string `json:"mainTitle"`
	SubTitle01 *string `json:"subTitle01"`
	SubTitle02 *string `json:"subTitle02"`
	FooterText *string `json:"footerText"`
}

// UpdateWebSetting applies the submitted site fields to the config
// rows and swaps any uploaded branding assets under web-conf/. Fields
// left out of the form keep their current value.
func UpdateWebSetting(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var site siteForm
	if err := json.Unmarshal([]byte(c.PostForm("site")), &site); err != nil {
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}

	updates := map[string]*string{
		"app_name":     site.Name,
		"icp_no":       site.IcpNo,
		"web_title":    site.WebTitle,
		"main_title":   site.MainTitle,
		"sub_title_01": site.SubTitle01,
		"sub_title_02": site.SubTitle02,
		"footer_text":  site.FooterText,
	}

	for name, value := range updates {
		if value == nil {
			continue
		}

		err := d.DB.Model(model.Config{}).Where("name = ?", name).Update("value", *value).Error
		if err != nil {
			zap.L().Error("Failed to update web setting", zap.String("name", name), zap.Error(err), zap.String("requestID", requestID))
			response.Error(c, response.ErrorPayload(err.Error()))
			return
		}
	}

	if site.UseAPI != nil {
		err := d.DB.Model(model.Config{}).
			Where("name = ?", model.ConfigEnableAPI).
			Update("value", apiFlag(site.UseAPI)).Error
		if err != nil {
			response.Error(c, response.ErrorPayload(err.Error()))
			return
		}
	}

	if err := storeBranding(c, requestID); err != nil {
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}

	response.Success(c, gin.H{"messageType": "success"})
}

func apiFlag(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

// Branding uploads land under fixed names so the serving routes never
// change
func storeBranding(c *gin.Context, requestID string) error {
	assets := map[string]string{
		"webLogo":    "logo.png",
		"webSVGLogo": "logo.svg",
		"loginCover": "login-bg.jpg",
		"background": "background.jpg",
	}

	for field, filename := range assets {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}

		dest := filepath.Join(util.WebConfDir(), filename)
		if err := saveUpload(c, fh, dest); err != nil {
			return err
		}

		zap.L().Info("Branding asset replaced", zap.String("filename", filename), zap.String("requestID", requestID))
	}

	return nil
}

func saveUpload(c *gin.Context, fh *multipart.FileHeader, dest string) error {
	return c.SaveUploadedFile(fh, dest)
}
