package service

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"yingcang/pic-api/pkg/util"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
)

// Progress value published when an export job failed
const ProgressFailed = -1

// Exporter archives the whole image library into a ZIP on a
// background goroutine. Every export gets its own job id mapped to a
// percent-complete value, so a poll endpoint can report progress and
// concurrent exports don't trample each other's counter.
type Exporter struct {
	jobs cmap.ConcurrentMap[string, int]
}

func NewExporter() *Exporter {
	return &Exporter{jobs: cmap.New[int]()}
}

// ZipPath is where the finished archive lands
func (e *Exporter) ZipPath() string {
	return filepath.Join(util.UploadDir(), "images.zip")
}

// Start kicks off a background export and returns its job handle
func (e *Exporter) Start() string {
	id := util.RandStr(12)
	e.jobs.Set(id, 0)

	go func() {
		if err := e.buildZip(id); err != nil {
			zap.L().Error("Image export failed", zap.String("jobID", id), zap.Error(err))
			e.jobs.Set(id, ProgressFailed)
		}
	}()

	return id
}

// Progress reports the percent-complete of a job, false for unknown ids
func (e *Exporter) Progress(id string) (int, bool) {
	return e.jobs.Get(id)
}

func (e *Exporter) buildZip(id string) error {
	zipPath := e.ZipPath()

	if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	root := util.ImagesDir()

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(files) == 0 {
		e.jobs.Set(id, 100)
		return nil
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for i, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}

		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return err
		}

		e.jobs.Set(id, (i+1)*100/len(files))
	}

	return zw.Close()
}

// ImportZip unpacks an uploaded archive into the image library.
// Entries under thumbnail/ land in the thumbnail root, everything
// else under the image root. Entry paths are normalized and anything
// still escaping the root is rejected.
func ImportZip(archivePath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		member := filepath.ToSlash(filepath.Clean(filepath.FromSlash(entry.Name)))
		if strings.HasPrefix(member, "..") || filepath.IsAbs(member) {
			return fmt.Errorf("archive entry escapes the target directory: %s", entry.Name)
		}

		var target string
		if strings.HasPrefix(member, "thumbnail/") {
			target = filepath.Join(util.ThumbnailsDir(), filepath.FromSlash(strings.TrimPrefix(member, "thumbnail/")))
		} else {
			target = filepath.Join(util.ImagesDir(), filepath.FromSlash(member))
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
			return err
		}

		if err := extractEntry(entry, target); err != nil {
			return err
		}
	}

	return nil
}

func extractEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	return err
}
