package setting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"yingcang/pic-api/internal"
	"yingcang/pic-api/internal/service"
	"yingcang/pic-api/pkg/response"
	"yingcang/pic-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportProgress starts a background export of the whole image
// library and returns the job handle for the progress poll
func ExportProgress(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	jobID := d.Exporter.Start()

	zap.L().Info("Image export started", zap.String("jobID", jobID), zap.String("requestID", requestID))
	response.Success(c, gin.H{
		"jobId":       jobID,
		"message":     "ok",
		"messageType": "success",
	})
}

// ExportProgressStatus reports the percent-complete of one export job
func ExportProgressStatus(c *gin.Context, d *internal.Deps) {
	progress, ok := d.Exporter.Progress(c.Query("jobId"))
	if !ok {
		response.Success(c, response.ErrorPayload("setting.fileManager.message.exportJobNotFound"))
		return
	}

	response.Success(c, gin.H{"progress": progress})
}

// DownloadImages streams the archive built by the last export
func DownloadImages(c *gin.Context, d *internal.Deps) {
	zipPath := d.Exporter.ZipPath()

	if _, err := os.Stat(zipPath); err != nil {
		response.Error(c, response.ErrorPayload("setting.fileManager.message.zipFileIsNotExists"))
		return
	}

	c.FileAttachment(zipPath, "images.zip")
}

// DownloadSQL dumps every table to a SQL file and streams it
func DownloadSQL(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	name := fmt.Sprintf("backup_%s.sql", time.Now().Format("20060102150405"))
	path := filepath.Join(util.UploadDir(), name)

	f, err := os.Create(path)
	if err != nil {
		zap.L().Error("Failed to create SQL dump", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}

	err = d.SQL.Dump(f)
	f.Close()
	if err != nil {
		zap.L().Error("Failed to dump database", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}

	c.FileAttachment(path, name)
}

// ImportImages unpacks an uploaded ZIP into the image library
func ImportImages(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, response.ErrorPayload("setting.fileManager.message.fileIsEmpty"))
		return
	}

	if fh.Filename == "" {
		response.Error(c, response.ErrorPayload("setting.fileManager.message.fileNameIsEmpty"))
		return
	}

	archive := filepath.Join(util.UploadDir(), util.SanitizeFilename(fh.Filename))
	if err := c.SaveUploadedFile(fh, archive); err != nil {
		zap.L().Error("Failed to store uploaded archive", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}
	defer os.Remove(archive)

	if err := service.ImportZip(archive); err != nil {
		zap.L().Error("Failed to import images", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}

	zap.L().Info("Images imported", zap.String("filename", fh.Filename), zap.String("requestID", requestID))
	response.Success(c, response.SuccessPayload("setting.fileManager.message.importImagesSuccess"))
}

// ImportSQL replays an uploaded dump into a freshly recreated schema
func ImportSQL(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, response.ErrorPayload("setting.fileManager.message.fileIsEmpty"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, response.ErrorPayload(err.Error()))
		return
	}
	defer f.Close()

	if err := d.SQL.Import(f); err != nil {
		zap.L().Error("Failed to import database", zap.Error(err), zap.String("requestID", requestID))
		response.Error(c, response.ErrorPayload("setting.fileManager.message.importSqlFailed"))
		return
	}

	zap.L().Info("Database imported", zap.String("filename", fh.Filename), zap.String("requestID", requestID))
	response.Success(c, response.SuccessPayload("setting.fileManager.message.importSqlSuccess"))
}
