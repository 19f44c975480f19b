package content

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// randomToken returns 48 bits of entropy as 12 hex characters. Combined
// with a nanosecond timestamp this keeps generated filenames unique even
// across concurrent saves in the same instant.
func randomToken() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic("read random token: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// inlineImageName names an image extracted from rich text:
// <section>_<nanos>_<token>.<ext>.
func inlineImageName(section string, now time.Time, subtype string) string {
	ext := safeName(strings.ToLower(subtype))
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s_%d_%s.%s", safeName(section), now.UnixNano(), randomToken(), ext)
}

// uploadImageName names a directly uploaded file, embedding the entry
// date so files from different days sort apart on disk:
// <yyyymmdd>_<nanos>_<token>_<original-base><ext>.
func uploadImageName(entryDate, now time.Time, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "." {
		ext = ""
	}
	base := safeName(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	if base == "" {
		base = "chart"
	}
	return fmt.Sprintf("%s_%d_%s_%s%s",
		entryDate.Format("20060102"), now.UnixNano(), randomToken(), base, ext)
}

// safeName keeps [A-Za-z0-9_-] and replaces everything else, so a
// generated filename can never escape the uploads directory or need
// URL escaping.
func safeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
