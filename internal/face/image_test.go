package face

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// tinyPNG returns a valid 2x2 PNG, base64-encoded.
func tinyPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeBase64Image(t *testing.T) {
	encoded := tinyPNG(t)

	data, err := DecodeBase64Image(encoded)
	if err != nil {
		t.Fatalf("DecodeBase64Image failed on plain base64: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected decoded image bytes")
	}
}

func TestDecodeBase64ImageStripsDataURLPrefix(t *testing.T) {
	encoded := "data:image/png;base64," + tinyPNG(t)

	if _, err := DecodeBase64Image(encoded); err != nil {
		t.Fatalf("DecodeBase64Image failed on data URL: %v", err)
	}
}

func TestDecodeBase64ImageRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not an image", base64.StdEncoding.EncodeToString([]byte("just some text"))},
		{"data URL with empty body", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBase64Image(tt.payload)
			if !errors.Is(err, ErrImageDecode) {
				t.Fatalf("expected ErrImageDecode, got %v", err)
			}
		})
	}
}
