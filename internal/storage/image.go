package storage

import (
	"bytes"
	"image"
	"io"

	// Registered decoders for the supported upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// imageContentTypes maps decoded image formats to their MIME types.
var imageContentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// SniffImage reads the payload, verifies that it decodes as a supported
// image format, and returns the raw bytes plus the detected content type.
// The full payload is buffered so it can be handed to a storage backend
// after validation.
func SniffImage(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	contentType, ok := imageContentTypes[format]
	if !ok {
		return nil, "", image.ErrFormat
	}
	return data, contentType, nil
}
