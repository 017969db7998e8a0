package util

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// InlineImage is a decoded data-URL payload ready for blob storage.
type InlineImage struct {
	Bytes       []byte
	ContentType string
	Ext         string
}

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseImageDataURL decodes a base64 data URL into raw bytes, enforcing the
// given byte cap. The extension is derived from the declared media type.
func ParseImageDataURL(dataURL string, maxBytes int64) (*InlineImage, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}

	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, fmt.Errorf("unsupported data URL encoding %q", encoding)
	}
	if !IsImage(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL payload: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(raw))
	}

	return &InlineImage{
		Bytes:       raw,
		ContentType: contentType,
		Ext:         ExtForContentType(contentType),
	}, nil
}
