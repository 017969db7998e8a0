package service

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"valentine_quiz_backend/internal/util"
	"valentine_quiz_backend/pkg/logger"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// PreparedImage is an incoming image after validation and, when needed,
// format normalization.
type PreparedImage struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Ext         string
}

// ImageService validates uploaded images and normalizes camera-native still
// formats (HEIC/HEIF) to JPEG, since most browsers cannot render them.
type ImageService struct {
	MaxBytes int64
}

func NewImageService(maxBytes int64) *ImageService {
	return &ImageService{MaxBytes: maxBytes}
}

// Prepare opens and checks a multipart image upload. Already-standard
// formats pass straight through; normalization never becomes a requirement
// for them.
func (s *ImageService) Prepare(file *multipart.FileHeader) (*PreparedImage, error) {
	if file.Size > s.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes over the %d byte cap", util.ErrImageTooLarge, file.Size, s.MaxBytes)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Buffer the whole payload; it is capped and we may need two passes
	// (sniff + convert).
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	contentType, err := util.ValidateMimeType(bytes.NewReader(raw), []string{"image/", "application/octet-stream"})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedImage, contentType)
	}

	declared := file.Header.Get("Content-Type")
	if util.IsHeic(declared, file.Filename) || util.IsHeic(contentType, "") {
		converted, err := convertToJPEG(raw)
		if err != nil {
			logger.Log.Warn("heic conversion failed",
				zap.String("filename", file.Filename),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", util.ErrConversionFailed, err)
		}
		return &PreparedImage{
			Reader:      bytes.NewReader(converted),
			Size:        int64(len(converted)),
			ContentType: "image/jpeg",
			Ext:         "jpg",
		}, nil
	}

	if !util.IsImage(contentType) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedImage, contentType)
	}

	return &PreparedImage{
		Reader:      bytes.NewReader(raw),
		Size:        int64(len(raw)),
		ContentType: contentType,
		Ext:         util.ExtForContentType(contentType),
	}, nil
}

// convertToJPEG shells out to ffmpeg over pipes. Best effort: when ffmpeg is
// absent or the payload is broken the caller rejects just this file.
func convertToJPEG(input []byte) ([]byte, error) {
	out := &bytes.Buffer{}
	err := ffmpeg.Input("pipe:0").
		Output("pipe:1", ffmpeg.KwArgs{
			"f":       "image2",
			"vcodec":  "mjpeg",
			"q:v":     "2",
			"vframes": "1",
		}).
		WithInput(bytes.NewReader(input)).
		WithOutput(out).
		Run()
	if err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output")
	}
	return out.Bytes(), nil
}
