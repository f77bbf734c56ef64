package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
)

// CacheFileName derives a stable local file name for a remote resource.
// Format: md5(url)[:12] plus the URL's extension, or ".mp3" when it has none
func CacheFileName(resourceURL string) string {
	hash := md5.Sum([]byte(resourceURL))
	hashStr := hex.EncodeToString(hash[:])[:12]

	ext := path.Ext(resourceURL)
	if ext == "" || len(ext) > 5 || strings.ContainsAny(ext, "/?&=") {
		ext = ".mp3"
	}

	return fmt.Sprintf("audio_%s%s", hashStr, SanitizeFilename(ext))
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is an ASCII letter or digit
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
