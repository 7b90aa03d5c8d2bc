package service

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yingcang/pic-api/pkg/util"
)

func waitForProgress(t *testing.T, e *Exporter, id string, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if p, ok := e.Progress(id); ok && p == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	p, _ := e.Progress(id)
	t.Fatalf("Job %s stuck at %d, want %d", id, p, want)
}

func TestExportBuildsZip(t *testing.T) {
	newTestDB(t)
	e := NewExporter()

	dir := filepath.Join(util.ImagesDir(), "2026", "02", "03")
	if err := os.MkdirAll(dir, 0o777); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	for _, name := range []string{"a.jpg", "b.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o666); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	id := e.Start()
	waitForProgress(t, e, id, 100)

	zr, err := zip.OpenReader(e.ZipPath())
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 2 {
		t.Fatalf("Archive holds %d entries, want 2", len(zr.File))
	}

	for _, f := range zr.File {
		if filepath.IsAbs(f.Name) {
			t.Errorf("Entry %q is absolute", f.Name)
		}
	}
}

func TestExportEmptyLibrary(t *testing.T) {
	newTestDB(t)
	e := NewExporter()

	id := e.Start()
	waitForProgress(t, e, id, 100)
}

func TestExportJobsAreIndependent(t *testing.T) {
	newTestDB(t)
	e := NewExporter()

	first := e.Start()
	waitForProgress(t, e, first, 100)

	second := e.Start()
	waitForProgress(t, e, second, 100)

	if _, ok := e.Progress(first); !ok {
		t.Error("Expected first job to stay queryable")
	}

	if _, ok := e.Progress("unknown"); ok {
		t.Error("Expected unknown job id to report no progress")
	}
}

func buildArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add entry: %v", err)
		}
		w.Write([]byte(content))
	}
	zw.Close()

	path := filepath.Join(t.TempDir(), "import.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o666); err != nil {
		t.Fatalf("Failed to write archive: %v", err)
	}

	return path
}

func TestImportZipRoutesEntries(t *testing.T) {
	newTestDB(t)

	archive := buildArchive(t, map[string]string{
		"2026/02/03/a.jpg": "original",
		"thumbnail/a.jpg":  "thumb",
	})

	if err := ImportZip(archive); err != nil {
		t.Fatalf("ImportZip failed: %v", err)
	}

	original := filepath.Join(util.ImagesDir(), "2026", "02", "03", "a.jpg")
	if got, err := os.ReadFile(original); err != nil || string(got) != "original" {
		t.Errorf("Original = %q, err %v", got, err)
	}

	thumb := filepath.Join(util.ThumbnailsDir(), "a.jpg")
	if got, err := os.ReadFile(thumb); err != nil || string(got) != "thumb" {
		t.Errorf("Thumbnail = %q, err %v", got, err)
	}
}

func TestImportZipRejectsTraversal(t *testing.T) {
	newTestDB(t)

	archive := buildArchive(t, map[string]string{
		"../escape.jpg": "evil",
	})

	if err := ImportZip(archive); err == nil {
		t.Fatal("Expected traversal entry to be rejected")
	}

	escaped := filepath.Join(util.ImagesDir(), "..", "escape.jpg")
	if _, err := os.Stat(escaped); err == nil {
		t.Error("Traversal entry was written outside the library")
	}
}
