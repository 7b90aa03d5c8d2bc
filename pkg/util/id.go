package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentID derives the permanent storage key for an uploaded file:
// a v5 UUID over the sanitized filename plus a millisecond timestamp.
// Practically unique, and decoupled from the original filename.
func ContentID(filename string, now time.Time) string {
	unique := fmt.Sprintf("%s_%d", SanitizeFilename(filename), now.UnixMilli())
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(unique)).String()
}

// SanitizeFilename strips path components and collapses anything
// outside [a-zA-Z0-9._-] to underscores
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return strings.Trim(b.String(), "._")
}
