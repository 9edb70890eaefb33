package face

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrImageDecode is returned when the submitted payload is not a
// decodable image.
var ErrImageDecode = errors.New("could not decode image")

// DecodeBase64Image turns a base64 payload into raw image bytes. Browser
// captures arrive as data URLs ("data:image/png;base64,...."); anything
// before the last comma is dropped. The bytes are decoded once to verify
// they really are an image before being handed to the embedding service.
func DecodeBase64Image(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if i := strings.LastIndex(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	if payload == "" {
		return nil, ErrImageDecode
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrImageDecode
	}

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return nil, ErrImageDecode
	}

	return data, nil
}
