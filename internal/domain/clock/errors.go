package clock

import "errors"

var (
	ErrInvalidPhoto  = errors.New("photo must be a JPEG or PNG image")
	ErrPhotoTooLarge = errors.New("photo exceeds the maximum upload size")
)
