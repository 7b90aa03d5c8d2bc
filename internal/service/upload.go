package service

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/util"

	ico "github.com/biessek/golang-ico"
	"github.com/ftrvxmtrx/tga"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Decoders for dimension extraction and thumbnailing
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrNoFile        = errors.New("no file provided")
	ErrEmptyFilename = errors.New("file name is empty")
	ErrExtNotAllowed = errors.New("file extension not allowed")
	ErrAlbumNotFound = errors.New("album does not exist")
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".ico": true, ".jfif": true,
	".tif": true, ".tga": true, ".svg": true,
}

// CheckFile rejects an upload before any I/O happens: the file must
// be present, carry a non-empty name and an allow-listed extension.
func CheckFile(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrNoFile
	}

	if fh.Filename == "" {
		return ErrEmptyFilename
	}

	if !allowedExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		return ErrExtNotAllowed
	}

	return nil
}

// Uploader runs the upload pipeline: validate, resolve the target
// album, persist the binary under a date-partitioned directory, write
// the metadata row and render the thumbnail. Any failure after the
// physical write rolls back both the file and the row so neither an
// orphaned file nor an orphaned row survives.
type Uploader struct {
	DB *gorm.DB
}

func NewUploader(db *gorm.DB) *Uploader {
	return &Uploader{DB: db}
}

// UploadResult carries the client-facing locations of a stored pic
type UploadResult struct {
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail"`
}

// Do stores one file into albumID. Album id 0 is the favourites
// sentinel: the pic lands in the default album flagged as loved.
func (u *Uploader) Do(fh *multipart.FileHeader, albumID uint) (*UploadResult, error) {
	if err := CheckFile(fh); err != nil {
		return nil, err
	}

	target := albumID
	if target == model.FavouritesAlbumID {
		target = model.DefaultAlbumID
	}

	var album model.Album
	if err := u.DB.Where("aid = ?", target).First(&album).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}

	now := time.Now()
	suffix := filepath.Ext(util.SanitizeFilename(fh.Filename))
	id := util.ContentID(fh.Filename, now)
	relPath := util.DatePath(now)
	filename := id + suffix

	dir := filepath.Join(util.ImagesDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return nil, err
	}

	dst := filepath.Join(dir, filename)
	if err := saveMultipart(fh, dst); err != nil {
		return nil, err
	}

	zap.L().Debug("Saved upload", zap.String("path", dst))

	// Past this point every failure must remove the file again
	size, dims, err := imageInfo(dst)
	if err != nil {
		u.rollback(dst, 0)
		return nil, err
	}

	pic := model.Pic{
		UUID:            id,
		PicName:         filename,
		PicOriginalName: fh.Filename,
		PicFileSize:     size,
		PicType:         contentType(fh, dst),
		PicSize:         dims,
		PicSuffix:       suffix,
		UploadTime:      now,
		PicDesc:         "",
		AlbumID:         target,
		PicLove:         loveFlag(albumID),
		RelativePath:    relPath,
	}

	if err := u.DB.Create(&pic).Error; err != nil {
		u.rollback(dst, 0)
		return nil, err
	}

	thumb := filepath.Join(util.ThumbnailsDir(), filename)
	if err := MakeThumbnail(dst, thumb); err != nil {
		u.rollback(dst, pic.PID)
		return nil, err
	}

	return &UploadResult{
		Filename:     filename,
		URL:          "/i/" + filename,
		ThumbnailURL: "/thumbnail/" + filename,
	}, nil
}

// rollback removes the written original and, when a row was already
// committed, the row as well
func (u *Uploader) rollback(path string, pid uint) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			zap.L().Error("Upload rollback failed to remove file", zap.String("path", path), zap.Error(err))
		} else {
			zap.L().Info("Upload rolled back, removed file", zap.String("path", path))
		}
	}

	if pid != 0 {
		err := u.DB.Where("pid = ?", pid).Delete(model.Pic{}).Error
		if err != nil {
			zap.L().Error("Upload rollback failed to remove row", zap.Uint("pid", pid), zap.Error(err))
		}
	}
}

func loveFlag(requested uint) int {
	if requested == model.FavouritesAlbumID {
		return 1
	}
	return 0
}

func saveMultipart(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	return err
}

// imageInfo returns the file size in bytes and the pixel dimensions
// read from the image header
func imageInfo(path string) (int64, string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	cfg, err := decodeConfig(f, path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to decode image header, %w", err)
	}

	return st.Size(), fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), nil
}

// decodeConfig reads the image header. ICO and TGA have no decoder in
// the registered-format set, so those are dispatched on the extension.
func decodeConfig(f io.Reader, path string) (image.Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ico":
		return ico.DecodeConfig(f)
	case ".tga":
		return tga.DecodeConfig(f)
	default:
		cfg, _, err := image.DecodeConfig(f)
		return cfg, err
	}
}

// contentType prefers what the client declared and falls back to
// sniffing the stored file
func contentType(fh *multipart.FileHeader, path string) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}

	return mime.String()
}
