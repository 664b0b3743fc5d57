package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&mockPipeline{resp: sampleResult()}, mockRenderer{})
	r := NewRouter(h, RouterOptions{MaxUploadBytes: 1 << 20})

	body, ct := multipartBody(t, uploadField, "a.csv", "LATITUDE;LONGITUDE\n1;2\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Ensure RequestID middleware injected header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestNewRouter_UploadTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&mockPipeline{resp: sampleResult()}, mockRenderer{})
	r := NewRouter(h, RouterOptions{MaxUploadBytes: 64})

	body, ct := multipartBody(t, uploadField, "a.csv", strings.Repeat("x;", 200))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(NewHandler(&mockPipeline{}, mockRenderer{}), RouterOptions{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("expected default go collector output")
	}
}
