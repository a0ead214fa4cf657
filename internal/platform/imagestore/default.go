package imagestore

import (
	"bytes"
	_ "embed"
	"errors"
)

//go:embed default_user.png
var defaultImage []byte

// DefaultImage returns a copy of the built-in profile image.
func DefaultImage() []byte {
	return bytes.Clone(defaultImage)
}

// withDefault serves the built-in image when the default reference has no backing object.
func withDefault(ref, defaultRef string, data []byte, err error) ([]byte, error) {
	if err != nil && ref == defaultRef && errors.Is(err, ErrImageNotFound) {
		return DefaultImage(), nil
	}
	return data, err
}
