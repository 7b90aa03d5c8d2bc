package util

import (
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "photo.jpg", "photo.jpg"},
		{"spaces", "my holiday pic.png", "my_holiday_pic.png"},
		{"unix path stripped", "/etc/passwd.jpg", "passwd.jpg"},
		{"windows path stripped", `C:\Users\admin\shot.png`, "shot.png"},
		{"traversal stripped", "../../escape.gif", "escape.gif"},
		// Every rune collapses to _, then the leading "__." is trimmed
		// away, so a fully non-ASCII name keeps only its bare extension
		{"unicode collapsed", "照片.jpg", "jpg"},
		{"leading dots trimmed", "..hidden.webp", "hidden.webp"},
		{"kept charset", "a-b_c.1.JPG", "a-b_c.1.JPG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContentID(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	first := ContentID("photo.jpg", now)
	if len(first) != 36 {
		t.Fatalf("Expected a UUID string, got %q", first)
	}

	if again := ContentID("photo.jpg", now); again != first {
		t.Error("Expected the same name and instant to derive the same id")
	}

	if other := ContentID("photo.jpg", now.Add(time.Millisecond)); other == first {
		t.Error("Expected a different instant to derive a different id")
	}

	if other := ContentID("other.jpg", now); other == first {
		t.Error("Expected a different name to derive a different id")
	}
}

func TestDatePath(t *testing.T) {
	got := DatePath(time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC))
	if got != "2025/01/05" {
		t.Errorf("DatePath = %q, want 2025/01/05", got)
	}
}

func TestRandStr(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := RandStr(12)
		if len(s) != 12 {
			t.Fatalf("RandStr(12) returned %d characters", len(s))
		}
		seen[s] = true
	}

	if len(seen) < 50 {
		t.Errorf("Expected 50 distinct strings, got %d", len(seen))
	}
}

// Request IDs are minted on every request, so concurrent calls must
// be safe. Run with -race to catch a shared unlocked source.
func TestRandStrConcurrent(t *testing.T) {
	out := make([]string, 64)

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = RandStr(10)
		}(i)
	}
	wg.Wait()

	for i, s := range out {
		if len(s) != 10 {
			t.Fatalf("out[%d] = %q, want 10 characters", i, s)
		}
	}
}

func TestDirsCreatedUnderStoragePath(t *testing.T) {
	dir := t.TempDir()
	viper.Set("storage.path", dir)

	for _, d := range []string{ImagesDir(), ThumbnailsDir(), UploadDir(), WebConfDir()} {
		if len(d) <= len(dir) || d[:len(dir)] != dir {
			t.Errorf("Expected %q to live under %q", d, dir)
		}
	}
}
