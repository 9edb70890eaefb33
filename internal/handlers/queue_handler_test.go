package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/waitingroom-api/internal/face"
	"github.com/harentsoaR/waitingroom-api/internal/queue"
	"github.com/harentsoaR/waitingroom-api/internal/store/mock"
)

type fixedExtractor struct {
	embedding []float64
	err       error
}

func (f fixedExtractor) Extract(ctx context.Context, imageData []byte) ([]float64, error) {
	return f.embedding, f.err
}

type nopNotifier struct{}

func (nopNotifier) Notify(to, subject, body string) {}

func newTestRouter(t *testing.T, embedding []float64, extractErr error) (*gin.Engine, *mock.MockDoctorStore, *mock.MockWaitingPool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	doctors := mock.NewMockDoctorStore()
	pool := mock.NewMockWaitingPool()
	coordinator := queue.NewCoordinator(doctors, pool, fixedExtractor{embedding, extractErr}, nopNotifier{}, 0.8)
	h := NewHandler(nil, coordinator, doctors, pool, "test-secret")

	r := gin.New()
	r.GET("/count/:doctorName", h.GetWaitingCount)
	r.POST("/register", h.RegisterFace)
	r.POST("/verify", h.VerifyFace)
	return r, doctors, pool
}

func testImageB64(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	r, _, pool := newTestRouter(t, []float64{1, 0}, nil)

	payload := fmt.Sprintf(`{"doctorName": "Dr. Rakoto", "image": %q, "email": "a@example.com"}`, testImageB64(t))
	recorder := postJSON(r, "/register", payload)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
	body := decodeBody(t, recorder)
	if body["status"] != "success" || body["doctorName"] != "Dr. Rakoto" {
		t.Fatalf("unexpected response: %v", body)
	}
	if pool.Len() != 1 {
		t.Fatalf("pool length = %d, want 1", pool.Len())
	}
}

func TestRegisterEndpointMissingField(t *testing.T) {
	r, _, _ := newTestRouter(t, []float64{1, 0}, nil)

	recorder := postJSON(r, "/register", `{"doctorName": "Dr. Rakoto"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if body := decodeBody(t, recorder); body["status"] != "error" {
		t.Fatalf("error responses must carry the status discriminator: %v", body)
	}
}

func TestVerifyEndpointUnknownDoctor(t *testing.T) {
	r, _, _ := newTestRouter(t, []float64{1, 0}, nil)

	payload := fmt.Sprintf(`{"doctorName": "Dr. Nobody", "image": %q}`, testImageB64(t))
	recorder := postJSON(r, "/verify", payload)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if body["status"] != "error" || body["message"] != "Doctor not found" {
		t.Fatalf("unexpected response: %v", body)
	}
}

func TestVerifyEndpointMatch(t *testing.T) {
	r, _, _ := newTestRouter(t, []float64{1, 0}, nil)
	img := testImageB64(t)

	postJSON(r, "/register", fmt.Sprintf(`{"doctorName": "Dr. Rakoto", "image": %q, "email": "a@example.com"}`, img))
	recorder := postJSON(r, "/verify", fmt.Sprintf(`{"doctorName": "Dr. Rakoto", "image": %q}`, img))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}
	body := decodeBody(t, recorder)
	if body["status"] != "success" {
		t.Fatalf("unexpected response: %v", body)
	}
	if similarity, ok := body["similarity"].(float64); !ok || similarity < 0.999 {
		t.Fatalf("similarity = %v, want ~1", body["similarity"])
	}
}

func TestVerifyEndpointNoMatch(t *testing.T) {
	r, doctors, _ := newTestRouter(t, []float64{1, 0}, nil)
	if _, err := doctors.GetOrCreate(context.Background(), "Dr. Rakoto"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	payload := fmt.Sprintf(`{"doctorName": "Dr. Rakoto", "image": %q}`, testImageB64(t))
	recorder := postJSON(r, "/verify", payload)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if body["message"] != "No matching face found" {
		t.Fatalf("unexpected response: %v", body)
	}
}

func TestCountEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t, []float64{1, 0}, nil)
	img := testImageB64(t)

	req := httptest.NewRequest(http.MethodGet, "/count/Dr.%20Rakoto", nil)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if body := decodeBody(t, recorder); body["waiting_count"] != float64(0) {
		t.Fatalf("waiting_count = %v, want 0 for unknown doctor", body["waiting_count"])
	}

	postJSON(r, "/register", fmt.Sprintf(`{"doctorName": "Dr. Rakoto", "image": %q, "email": "a@example.com"}`, img))

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/count/Dr.%20Rakoto", nil))
	if body := decodeBody(t, recorder); body["waiting_count"] != float64(1) {
		t.Fatalf("waiting_count = %v, want 1", body["waiting_count"])
	}
}

func TestVerifyEndpointNoFace(t *testing.T) {
	r, doctors, _ := newTestRouter(t, nil, face.ErrNoFaceDetected)

	if _, err := doctors.GetOrCreate(context.Background(), "Dr. Rakoto"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	payload := fmt.Sprintf(`{"doctorName": "Dr. Rakoto", "image": %q}`, testImageB64(t))
	recorder := postJSON(r, "/verify", payload)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", recorder.Code, recorder.Body.String())
	}
	if body := decodeBody(t, recorder); body["message"] != "Face not detected" {
		t.Fatalf("unexpected response: %v", body)
	}
}
