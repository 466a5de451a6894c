// Package upload checks user supplied files before they reach object storage.
package upload

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

// MaxAvatarBytes caps profile picture uploads.
const MaxAvatarBytes = 5 << 20

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

// ValidateImageBySniff checks the filename extension and the first bytes of
// the file against the image whitelist and returns the content type to store.
// Failures are BadRequest errors.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", apperror.BadRequest("file must be a JPG, PNG, GIF, WEBP or AVIF image")
	}

	detected := http.DetectContentType(head)

	// Scriptable content is rejected whatever the extension says
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", apperror.BadRequest("html content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", apperror.BadRequest("svg and xml files are not allowed")
	}

	// AVIF sniffs as octet-stream
	if detected == "application/octet-stream" && ext == ".avif" {
		return "image/avif", nil
	}
	if allowedMime[detected] {
		return detected, nil
	}
	return "", apperror.BadRequest("file must be an image")
}
