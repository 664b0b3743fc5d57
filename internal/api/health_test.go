package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		check  func() error
		path   string
		want   int
		status string
	}{
		{name: "healthz ok", path: "/healthz", want: 200, status: "ok"},
		{name: "healthz ignores failing check", check: func() error { return errors.New("template") }, path: "/healthz", want: 200, status: "ok"},
		{name: "readyz without check", path: "/readyz", want: 200, status: "ready"},
		{name: "readyz ok", check: func() error { return nil }, path: "/readyz", want: 200, status: "ready"},
		{name: "readyz degraded", check: func() error { return errors.New("template") }, path: "/readyz", want: 503, status: "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.check).Register(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["status"] != tc.status {
				t.Fatalf("want status %q got %q", tc.status, body["status"])
			}
		})
	}
}
