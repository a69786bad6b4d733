package fetch

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decoder turns a downloaded payload into a resource value.
type Decoder[T any] func(data []byte) (T, error)

// DecodeImage decodes GIF, JPEG, PNG, BMP and WebP payloads.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return img, nil
}
