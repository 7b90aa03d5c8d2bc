package service

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	ico "github.com/biessek/golang-ico"
	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
)

// Thumbnails fit inside a fixed bounding box, aspect preserved
const thumbBound = 250

// MakeThumbnail renders the bounded thumbnail for a stored original
// and writes it to dest. Formats imaging cannot encode (webp, ico,
// tga) are written as JPEG bytes under the unchanged filename.
func MakeThumbnail(src, dest string) error {
	now := time.Now()

	img, err := openImage(src)
	if err != nil {
		return fmt.Errorf("failed to decode image for thumbnail, %w", err)
	}

	thumb := imaging.Fit(img, thumbBound, thumbBound, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(dest)
	if err != nil {
		format = imaging.JPEG
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file, %w", err)
	}

	err = imaging.Encode(out, thumb, format)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to encode thumbnail, %w", err)
	}

	zap.L().Debug("Finished creating thumbnail", zap.Duration("took", time.Since(now)))

	return nil
}

// openImage decodes a stored original. ICO and TGA sit outside the
// registered-format set imaging consults, so they get their own path.
func openImage(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ico" && ext != ".tga" {
		return imaging.Open(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if ext == ".ico" {
		return ico.Decode(f)
	}

	return tga.Decode(f)
}
