package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType sniffs the real content type from the first bytes of the
// reader and checks it against the allowed prefixes or exact types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// imageExts maps image content types to the extension used in blob paths.
// Anything unrecognized falls back to jpg.
var imageExts = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/heic": "jpg",
	"image/heif": "jpg",
}

func ExtForContentType(contentType string) string {
	if ext, ok := imageExts[strings.ToLower(contentType)]; ok {
		return ext
	}
	return "jpg"
}

func IsHeic(contentType, filename string) bool {
	ct := strings.ToLower(contentType)
	name := strings.ToLower(filename)
	return ct == "image/heic" || ct == "image/heif" ||
		strings.HasSuffix(name, ".heic") || strings.HasSuffix(name, ".heif")
}
