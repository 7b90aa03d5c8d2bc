// Package app wires every endpoint to its handler
package app

import (
	"fmt"
	"time"

	"yingcang/pic-api/app/album"
	"yingcang/pic-api/app/apix"
	"yingcang/pic-api/app/auth"
	"yingcang/pic-api/app/dashboard"
	"yingcang/pic-api/app/install"
	"yingcang/pic-api/app/pic"
	"yingcang/pic-api/app/serve"
	"yingcang/pic-api/app/setting"
	"yingcang/pic-api/app/upload"
	"yingcang/pic-api/db"
	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/middleware"
	"yingcang/pic-api/pkg/response"
	"yingcang/pic-api/pkg/security"
	"yingcang/pic-api/pkg/util"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	d := &internal.Deps{
		DB:        conn,
		Argon:     security.New(),
		Tokens:    service.NewTokenService(conn),
		Uploader:  service.NewUploader(conn),
		Pics:      service.NewPicService(conn),
		Albums:    service.NewAlbumService(conn),
		Exporter:  service.NewExporter(),
		SQL:       service.NewSQLTransfer(conn),
		Dashboard: service.NewDashboardService(conn),
	}

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("server.cors"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.CustomRecovery(func(c *gin.Context, _ any) {
			response.Error(c, "404")
		}),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20

	session := middleware.NewSessionAuth()
	browser := middleware.NewBrowserOnly()
	gate := middleware.NewAPIGate(d)
	tokenAuth := middleware.NewTokenAuth(d.Tokens)

	// A handful of login attempts per hour per IP is plenty for one admin
	loginLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rate.Every(12 * time.Minute),
		Burst:             5,
		TTL:               time.Hour,
	})

	// Public media routes. The rows decide what may be served.
	router.GET("/i/:filename", func(c *gin.Context) { serve.File(c, d) })
	router.GET("/thumbnail/:filename", func(c *gin.Context) { serve.Thumbnail(c, d) })
	router.Static("/web", util.WebConfDir())

	m := router.Group("/api")
	{
		// POST /api/login		-> Exchanges admin credentials for a session token
		m.POST("/login", browser, loginLimiter, middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { auth.Login(c, d) })

		// GET /api/install/check	-> Reports whether first-run setup is pending
		m.GET("/install/check", browser, func(c *gin.Context) { install.Check(c, d) })

		// POST /api/install/config	-> Runs first-run setup
		m.POST("/install/config", browser, func(c *gin.Context) { install.Configure(c, d) })

		// GET /api/getWebSetting	-> Public site configuration
		m.GET("/getWebSetting", func(c *gin.Context) { setting.GetWebSetting(c, d) })

		// GET /api/getPicCount		-> Total number of stored pics
		m.GET("/getPicCount", browser, cacheFor(15), func(c *gin.Context) { pic.PicCount(c, d) })
	}

	s := m.Group("", browser, session)
	{
		// POST /api/upload		-> Stores one picture
		s.POST("/upload", func(c *gin.Context) { upload.Upload(c, d) })

		// GET /api/getPicList		-> Pages through an album
		s.GET("/getPicList", func(c *gin.Context) { pic.PicList(c, d) })

		// PUT /api/pic			-> Edits description/name/favourite flag
		s.PUT("/pic", func(c *gin.Context) { pic.PicUpdate(c, d) })
	}

	j := m.Group("", session)
	{
		// DELETE /api/pic		-> Bulk delete
		j.DELETE("/pic", func(c *gin.Context) { pic.PicDelete(c, d) })

		// POST /api/pic		-> Bulk move between albums
		j.POST("/pic", func(c *gin.Context) { pic.PicMove(c, d) })

		// GET|POST|PUT|DELETE /api/album
		j.GET("/album", func(c *gin.Context) { album.AlbumList(c, d) })
		j.POST("/album", func(c *gin.Context) { album.AlbumCreate(c, d) })
		j.PUT("/album", func(c *gin.Context) { album.AlbumRename(c, d) })
		j.DELETE("/album", func(c *gin.Context) { album.AlbumDelete(c, d) })

		// GET /api/dashboard		-> Admin overview numbers
		j.GET("/dashboard", func(c *gin.Context) { dashboard.Dashboard(c, d) })

		// PUT /api/updateWebSetting	-> Site branding and switches
		j.PUT("/updateWebSetting", func(c *gin.Context) { setting.UpdateWebSetting(c, d) })

		// GET /api/getUserSetting	-> Admin profile
		j.GET("/getUserSetting", func(c *gin.Context) { setting.GetUserSetting(c, d) })

		// POST /api/updateUserSetting	-> Admin profile changes
		j.POST("/updateUserSetting", func(c *gin.Context) { setting.UpdateUserSetting(c, d) })

		// GET /api/export_progress_status -> Polls one export job
		j.GET("/export_progress_status", func(c *gin.Context) { setting.ExportProgressStatus(c, d) })
	}

	t := m.Group("", session, browser)
	{
		// GET /api/export_progress	-> Starts a library export job
		t.GET("/export_progress", func(c *gin.Context) { setting.ExportProgress(c, d) })

		// GET /api/downloadImages	-> Streams the finished archive
		t.GET("/downloadImages", func(c *gin.Context) { setting.DownloadImages(c, d) })

		// GET /api/downloadSql		-> Streams a fresh SQL dump
		t.GET("/downloadSql", func(c *gin.Context) { setting.DownloadSQL(c, d) })

		// POST /api/importImages	-> Restores a library archive
		t.POST("/importImages", func(c *gin.Context) { setting.ImportImages(c, d) })

		// POST /api/importSql		-> Restores a SQL dump
		t.POST("/importSql", func(c *gin.Context) { setting.ImportSQL(c, d) })
	}

	x := router.Group("/api/x", gate)
	{
		// POST /api/x/tokens		-> Issues a bearer token for the admin
		x.POST("/tokens", func(c *gin.Context) { apix.TokenCreate(c, d) })

		// DELETE /api/x/tokens		-> Drops every bearer token
		x.DELETE("/tokens", tokenAuth, func(c *gin.Context) { apix.TokenPurge(c, d) })

		// GET|POST|DELETE /api/x/album
		x.GET("/album", tokenAuth, func(c *gin.Context) { apix.AlbumList(c, d) })
		x.POST("/album", tokenAuth, func(c *gin.Context) { apix.AlbumCreate(c, d) })
		x.DELETE("/album", tokenAuth, func(c *gin.Context) { apix.AlbumDelete(c, d) })

		// POST /api/x/upload		-> Stores one picture
		x.POST("/upload", tokenAuth, func(c *gin.Context) { apix.Upload(c, d) })

		// GET /api/x/getPicList	-> Pages through an album
		x.GET("/getPicList", tokenAuth, func(c *gin.Context) { apix.PicList(c, d) })

		// DELETE /api/x/pic		-> Bulk delete
		x.DELETE("/pic", tokenAuth, func(c *gin.Context) { apix.PicDelete(c, d) })
	}

	startTokenCleanup(d)

	return router, nil
}

// Expired bearer tokens pile up quietly, so a daily sweep is enough
func startTokenCleanup(d *internal.Deps) {
	c := cron.New()

	c.AddFunc("@daily", func() {
		n, err := d.Tokens.PurgeExpired()
		if err != nil {
			zap.L().Error("Token cleanup failed", zap.Error(err))
			return
		}

		if n > 0 {
			zap.L().Info("Expired tokens purged", zap.Int64("count", n))
		}
	})

	c.Start()
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
