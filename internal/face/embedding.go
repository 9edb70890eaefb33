package face

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// ErrNoFaceDetected is returned when the embedding service finds no face
// in the submitted image.
var ErrNoFaceDetected = errors.New("no face detected")

// Extractor turns raw image bytes into a fixed-length identity vector.
type Extractor interface {
	Extract(ctx context.Context, imageData []byte) ([]float64, error)
}

// EmbeddingClient talks to the face embedding service (the insightface
// model behind a small HTTP endpoint). The model itself is opaque; the
// client only knows the wire shape.
type EmbeddingClient struct {
	baseURL string
	client  *http.Client
}

func NewEmbeddingClient(baseURL string) *EmbeddingClient {
	return &EmbeddingClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

type embeddingResponse struct {
	Dim       int       `json:"dim"`
	Embedding []float64 `json:"embedding"`
}

// Extract posts the image to the embedding service and returns the
// identity vector. A 422 response means the service saw no face.
func (c *EmbeddingClient) Extract(ctx context.Context, imageData []byte) ([]float64, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "capture.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, ErrNoFaceDetected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, ErrNoFaceDetected
	}

	return parsed.Embedding, nil
}
