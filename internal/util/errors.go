package util

import "errors"

var (
	ErrQuizNotFound     = errors.New("quiz not found or link expired")
	ErrQuizIncomplete   = errors.New("quiz is incomplete")
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrConversionFailed = errors.New("image conversion failed")
)
