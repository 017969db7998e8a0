package util

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header bytes, enough for sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func TestIsDataURL(t *testing.T) {
	assert.True(t, IsDataURL("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURL("https://cdn.example.com/a.png"))
	assert.False(t, IsDataURL(""))
}

func TestParseImageDataURL(t *testing.T) {
	img, err := ParseImageDataURL(pngDataURL(), 1<<20)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Bytes)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
}

func TestParseImageDataURLRejections(t *testing.T) {
	t.Run("not a data URL", func(t *testing.T) {
		_, err := ParseImageDataURL("https://cdn.example.com/a.png", 1<<20)
		assert.Error(t, err)
	})

	t.Run("missing payload separator", func(t *testing.T) {
		_, err := ParseImageDataURL("data:image/png;base64", 1<<20)
		assert.Error(t, err)
	})

	t.Run("non-base64 encoding", func(t *testing.T) {
		_, err := ParseImageDataURL("data:image/png,rawdata", 1<<20)
		assert.Error(t, err)
	})

	t.Run("non-image media type", func(t *testing.T) {
		_, err := ParseImageDataURL("data:text/html;base64,PGI+", 1<<20)
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("corrupt base64", func(t *testing.T) {
		_, err := ParseImageDataURL("data:image/png;base64,!!!", 1<<20)
		assert.Error(t, err)
	})

	t.Run("over the byte cap", func(t *testing.T) {
		_, err := ParseImageDataURL(pngDataURL(), int64(len(pngBytes)-1))
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})
}

func TestValidateMimeType(t *testing.T) {
	mime, err := ValidateMimeType(bytes.NewReader(pngBytes), []string{"image/"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = ValidateMimeType(strings.NewReader("<html><body>hi</body></html>"), []string{"image/"})
	assert.Error(t, err)
}

func TestExtForContentType(t *testing.T) {
	assert.Equal(t, "png", ExtForContentType("image/png"))
	assert.Equal(t, "jpg", ExtForContentType("image/jpeg"))
	assert.Equal(t, "jpg", ExtForContentType("IMAGE/HEIC"))
	assert.Equal(t, "jpg", ExtForContentType("application/unknown"))
}

func TestIsHeic(t *testing.T) {
	assert.True(t, IsHeic("image/heic", "photo.bin"))
	assert.True(t, IsHeic("application/octet-stream", "IMG_0001.HEIC"))
	assert.False(t, IsHeic("image/jpeg", "photo.jpg"))
}
