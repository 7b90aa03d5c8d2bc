// Package install implements the first-run setup flow
package install

import (
	"yingcang/pic-api/config"
	"yingcang/pic-api/db"
	"yingcang/pic-api/internal"
	"yingcang/pic-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Check reports whether the server still awaits its first-run setup,
// which is the case while no database host has been configured
func Check(c *gin.Context, d *internal.Deps) {
	response.Success(c, viper.GetString("sql.host") == "none")
}

type configBody struct {
	SQLType      string `json:"sqlType"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Database     string `json:"database"`
	Account      string `json:"account"`
	UserPassword string `json:"userPassword"`
}

// Configure connects to the submitted database, creates the tables
// and seed rows, stores the connection and admin credentials in the
// config file and switches the running server over to the new
// database. Refused once the server is installed.
func Configure(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	if viper.GetString("sql.host") != "none" {
		response.Success(c, gin.H{"message": "server is completely installed"})
		return
	}

	var data configBody
	if err := c.ShouldBind(&data); err != nil {
		response.Error(c, "404")
		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	viper.Set("sql.host", data.Host)
	viper.Set("sql.port", data.Port)
	viper.Set("sql.username", data.Username)
	viper.Set("sql.password", data.Password)
	viper.Set("sql.database", data.Database)

	conn, err := db.New()
	if err != nil {
		viper.Set("sql.host", "none")
		zap.L().Error("Install failed to connect the database", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload("install.message.sqlConnectFailed"))
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.UserPassword)
	if err != nil {
		zap.L().Error("Failed to hash admin password", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload("install.message.createSQLFailed"))
		return
	}

	viper.Set("server.adminAccount", data.Account)
	viper.Set("server.adminPassword", hash)

	if err := config.Save(); err != nil {
		zap.L().Error("Failed to persist install config", zap.Error(err), zap.String("requestID", requestID))
		response.Success(c, response.ErrorPayload("install.message.createSQLFailed"))
		return
	}

	d.Rebind(conn)

	zap.L().Info("Install finished", zap.String("requestID", requestID))
	response.Success(c, response.SuccessPayload("install.message.success"))
}
