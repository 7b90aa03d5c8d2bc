package service

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/util"
)

// makeFileHeader builds a real multipart.FileHeader by writing and
// re-parsing a form, the same shape handlers receive
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("Failed to parse form: %v", err)
	}

	return form.File["file"][0]
}

// jpegBytes encodes a small JPEG, padded with trailing bytes to reach
// exactly total bytes. Decoders stop at the end-of-image marker, so
// the padding only affects the file size.
func jpegBytes(t *testing.T, w, h, total int) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}

	if total == 0 {
		return buf.Bytes()
	}

	if buf.Len() > total {
		t.Fatalf("Encoded JPEG already bigger than %d bytes", total)
	}

	out := make([]byte, total)
	copy(out, buf.Bytes())
	return out
}

func TestCheckFile(t *testing.T) {
	tests := []struct {
		name     string
		fh       *multipart.FileHeader
		expected error
	}{
		{"nil header", nil, ErrNoFile},
		{"empty filename", &multipart.FileHeader{Filename: ""}, ErrEmptyFilename},
		{"disallowed extension", &multipart.FileHeader{Filename: "run.exe"}, ErrExtNotAllowed},
		{"no extension", &multipart.FileHeader{Filename: "noext"}, ErrExtNotAllowed},
		{"jpg", &multipart.FileHeader{Filename: "a.jpg"}, nil},
		{"uppercase jpg", &multipart.FileHeader{Filename: "a.JPG"}, nil},
		{"webp", &multipart.FileHeader{Filename: "a.webp"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckFile(tt.fh); !errors.Is(got, tt.expected) {
				t.Errorf("CheckFile() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUploadScenario(t *testing.T) {
	db := newTestDB(t)
	u := NewUploader(db)

	album := model.Album{AlbumName: "Trips"}
	if err := db.Create(&album).Error; err != nil {
		t.Fatalf("Failed to create album: %v", err)
	}

	const totalSize = 2097152

	fh := makeFileHeader(t, "photo.JPG", jpegBytes(t, 640, 480, totalSize))

	result, err := u.Do(fh, album.AID)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if result.URL != "/i/"+result.Filename {
		t.Errorf("URL = %q, want /i/%s", result.URL, result.Filename)
	}
	if result.ThumbnailURL != "/thumbnail/"+result.Filename {
		t.Errorf("ThumbnailURL = %q, want /thumbnail/%s", result.ThumbnailURL, result.Filename)
	}

	var pic model.Pic
	if err := db.First(&pic).Error; err != nil {
		t.Fatalf("Expected a pic row: %v", err)
	}

	if pic.PicOriginalName != "photo.JPG" {
		t.Errorf("PicOriginalName = %q, want photo.JPG", pic.PicOriginalName)
	}
	if pic.PicFileSize != totalSize {
		t.Errorf("PicFileSize = %d, want %d", pic.PicFileSize, totalSize)
	}
	if pic.PicSize != "640x480" {
		t.Errorf("PicSize = %q, want 640x480", pic.PicSize)
	}
	if pic.AlbumID != album.AID {
		t.Errorf("AlbumID = %d, want %d", pic.AlbumID, album.AID)
	}
	if pic.PicLove != 0 {
		t.Errorf("PicLove = %d, want 0", pic.PicLove)
	}

	original := filepath.Join(util.ImagesDir(), filepath.FromSlash(pic.RelativePath), pic.FileName())
	if _, err := os.Stat(original); err != nil {
		t.Errorf("Expected stored original at %s: %v", original, err)
	}

	thumb := filepath.Join(util.ThumbnailsDir(), pic.FileName())
	if _, err := os.Stat(thumb); err != nil {
		t.Errorf("Expected thumbnail at %s: %v", thumb, err)
	}
}

func TestUploadToFavouritesLandsInDefault(t *testing.T) {
	db := newTestDB(t)
	u := NewUploader(db)

	fh := makeFileHeader(t, "loved.jpg", jpegBytes(t, 4, 4, 0))

	if _, err := u.Do(fh, model.FavouritesAlbumID); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	var pic model.Pic
	if err := db.First(&pic).Error; err != nil {
		t.Fatalf("Expected a pic row: %v", err)
	}

	if pic.AlbumID != model.DefaultAlbumID {
		t.Errorf("AlbumID = %d, want default album %d", pic.AlbumID, model.DefaultAlbumID)
	}
	if pic.PicLove != 1 {
		t.Errorf("PicLove = %d, want 1", pic.PicLove)
	}
}

func TestUploadUnknownAlbum(t *testing.T) {
	u := NewUploader(newTestDB(t))

	fh := makeFileHeader(t, "a.jpg", jpegBytes(t, 4, 4, 0))

	if _, err := u.Do(fh, 99); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("Do() = %v, want ErrAlbumNotFound", err)
	}
}

// icoBytes builds a minimal 2x2 32-bit icon with a BMP payload
func icoBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer

	// ICONDIR: reserved, type icon, one entry
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})

	// ICONDIRENTRY: 2x2, 32bpp, payload right after the 22 header bytes
	buf.Write([]byte{2, 2, 0, 0})
	binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&buf, binary.LittleEndian, uint32(40+16+8))
	binary.Write(&buf, binary.LittleEndian, uint32(22))

	// BITMAPINFOHEADER, height doubled to cover the AND mask
	binary.Write(&buf, binary.LittleEndian, uint32(40))
	binary.Write(&buf, binary.LittleEndian, int32(2))
	binary.Write(&buf, binary.LittleEndian, int32(4))
	binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&buf, binary.LittleEndian, [6]uint32{})

	// XOR pixel rows, then the AND mask rows padded to 32 bits
	buf.Write(bytes.Repeat([]byte{0x30, 0x60, 0x90, 0xff}, 4))
	buf.Write(make([]byte, 8))

	return buf.Bytes()
}

// tgaBytes builds a 2x2 uncompressed 24-bit true-color image with a
// top-left origin
func tgaBytes(t *testing.T) []byte {
	t.Helper()

	header := []byte{
		0, 0, 2,
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		2, 0, 2, 0,
		24, 0x20,
	}

	return append(header, bytes.Repeat([]byte{0x10, 0x20, 0x30}, 4)...)
}

func TestUploadDecodesIcoAndTga(t *testing.T) {
	db := newTestDB(t)
	u := NewUploader(db)

	tests := []struct {
		name     string
		filename string
		content  []byte
		dims     string
	}{
		{"ico", "pixel.ico", icoBytes(t), ""},
		{"tga", "pixel.tga", tgaBytes(t), "2x2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := makeFileHeader(t, tt.filename, tt.content)

			result, err := u.Do(fh, model.DefaultAlbumID)
			if err != nil {
				t.Fatalf("Upload failed: %v", err)
			}

			var pic model.Pic
			if err := db.Where("pic_original_name = ?", tt.filename).First(&pic).Error; err != nil {
				t.Fatalf("Expected a pic row: %v", err)
			}

			if pic.PicSuffix != filepath.Ext(tt.filename) {
				t.Errorf("PicSuffix = %q, want %q", pic.PicSuffix, filepath.Ext(tt.filename))
			}
			if pic.PicSize == "" {
				t.Error("Expected the header dimensions to be recorded")
			}
			if tt.dims != "" && pic.PicSize != tt.dims {
				t.Errorf("PicSize = %q, want %q", pic.PicSize, tt.dims)
			}

			original := filepath.Join(util.ImagesDir(), filepath.FromSlash(pic.RelativePath), pic.FileName())
			if _, err := os.Stat(original); err != nil {
				t.Errorf("Expected stored original at %s: %v", original, err)
			}

			thumb := filepath.Join(util.ThumbnailsDir(), result.Filename)
			if _, err := os.Stat(thumb); err != nil {
				t.Errorf("Expected thumbnail at %s: %v", thumb, err)
			}
		})
	}
}

// Sanitizing a fully non-ASCII name leaves only the bare extension,
// so the pic is stored suffixless under its id
func TestUploadNonASCIINameLosesSuffix(t *testing.T) {
	db := newTestDB(t)
	u := NewUploader(db)

	fh := makeFileHeader(t, "照片.jpg", jpegBytes(t, 8, 8, 0))

	result, err := u.Do(fh, model.DefaultAlbumID)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	var pic model.Pic
	if err := db.First(&pic).Error; err != nil {
		t.Fatalf("Expected a pic row: %v", err)
	}

	if pic.PicSuffix != "" {
		t.Errorf("PicSuffix = %q, want empty", pic.PicSuffix)
	}
	if result.Filename != pic.UUID {
		t.Errorf("Filename = %q, want the bare id %q", result.Filename, pic.UUID)
	}

	original := filepath.Join(util.ImagesDir(), filepath.FromSlash(pic.RelativePath), pic.FileName())
	if _, err := os.Stat(original); err != nil {
		t.Errorf("Expected stored original at %s: %v", original, err)
	}
}

func TestUploadRollbackOnDecodeFailure(t *testing.T) {
	db := newTestDB(t)
	u := NewUploader(db)

	// Allowed extension, garbage content: the header decode fails
	// after the physical write, which must remove the file again
	fh := makeFileHeader(t, "broken.jpg", []byte("not an image at all"))

	if _, err := u.Do(fh, model.DefaultAlbumID); err == nil {
		t.Fatal("Expected upload of a broken file to fail")
	}

	var rows int64
	if err := db.Model(model.Pic{}).Count(&rows).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if rows != 0 {
		t.Errorf("Expected no pic rows after rollback, got %d", rows)
	}

	leftovers := 0
	filepath.Walk(util.ImagesDir(), func(path string, info os.FileInfo, err error) error {
		if err == nil && info != nil && !info.IsDir() {
			leftovers++
		}
		return nil
	})
	if leftovers != 0 {
		t.Errorf("Expected no files after rollback, found %d", leftovers)
	}
}
