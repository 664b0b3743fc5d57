package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tktmap/internal/domain/dto"
	"github.com/guttosm/tktmap/internal/domain/models"
	"github.com/guttosm/tktmap/internal/ingestion"
	"github.com/guttosm/tktmap/internal/service"
)

type mockPipeline struct {
	resp *models.Result
	err  error
	got  string
}

func (m *mockPipeline) Run(_ context.Context, src io.Reader) (*models.Result, error) {
	b, _ := io.ReadAll(src)
	m.got = string(b)
	return m.resp, m.err
}

var _ service.PipelineService = (*mockPipeline)(nil)

type mockRenderer struct {
	err error
}

func (m mockRenderer) Render(w io.Writer, res *models.Result) error {
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "<html>%d</html>", res.Total())
	return err
}

func sampleResult() *models.Result {
	rec := models.ClassifiedRecord{
		NormalizedRecord: models.NormalizedRecord{Line: 2, Latitude: -23.5, Longitude: -46.6, Supervisor: "ANA"},
		Color:            models.ColorGreen,
	}
	return &models.Result{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		Groups:      []models.SupervisorGroup{{Name: "ANA", Records: []models.ClassifiedRecord{rec}}},
		Stats:       models.LoadStats{RowsRead: 2, RowsKept: 1, RowsDropped: 1, Delimiter: ";"},
		ColorCounts: map[models.Color]int{models.ColorGreen: 1},
	}
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func setupRouterWithMock(s service.PipelineService, r MapRenderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, r)
	e := gin.New()
	v1 := e.Group("/api/v1")
	v1.POST("/maps", h.RenderMap)
	v1.POST("/classify", h.Classify)
	return e
}

func TestRenderMap_TableDriven(t *testing.T) {
	cases := []struct {
		name     string
		svc      *mockPipeline
		renderer mockRenderer
		field    string
		status   int
		assert   func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:   "missing file field",
			svc:    &mockPipeline{},
			field:  "other",
			status: http.StatusBadRequest,
		},
		{
			name:   "structural failure",
			svc:    &mockPipeline{err: fmt.Errorf("load: %w", ingestion.ErrMissingCoordinates)},
			field:  uploadField,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "no valid records",
			svc:    &mockPipeline{err: service.ErrNoValidRecords},
			field:  uploadField,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "deadline exceeded",
			svc:    &mockPipeline{err: fmt.Errorf("load: %w", context.DeadlineExceeded)},
			field:  uploadField,
			status: http.StatusGatewayTimeout,
		},
		{
			name:   "internal error",
			svc:    &mockPipeline{err: errors.New("boom")},
			field:  uploadField,
			status: http.StatusInternalServerError,
		},
		{
			name:     "render failure",
			svc:      &mockPipeline{resp: sampleResult()},
			renderer: mockRenderer{err: errors.New("template")},
			field:    uploadField,
			status:   http.StatusInternalServerError,
		},
		{
			name:   "success",
			svc:    &mockPipeline{resp: sampleResult()},
			field:  uploadField,
			status: http.StatusOK,
			assert: func(t *testing.T, w *httptest.ResponseRecorder) {
				if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
					t.Fatalf("unexpected content type %q", ct)
				}
				if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="mapa_clientes_sp.html"` {
					t.Fatalf("unexpected disposition %q", cd)
				}
				if w.Header().Get("X-Rows-Dropped") != "1" {
					t.Fatalf("expected dropped header, got %q", w.Header().Get("X-Rows-Dropped"))
				}
				if w.Body.String() != "<html>1</html>" {
					t.Fatalf("unexpected body %q", w.Body.String())
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc, tc.renderer)
			body, ct := multipartBody(t, tc.field, "clientes sp.csv", "LATITUDE;LONGITUDE\n1;2\n")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("want %d got %d body=%s", tc.status, w.Code, w.Body.String())
			}
			if tc.status >= 400 {
				var out dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
					t.Fatalf("invalid error json: %v", err)
				}
				if out.Message == "" {
					t.Fatalf("expected error message")
				}
			}
			if tc.assert != nil {
				tc.assert(t, w)
			}
		})
	}
}

func TestRenderMap_PassesUploadToPipeline(t *testing.T) {
	svc := &mockPipeline{resp: sampleResult()}
	r := setupRouterWithMock(svc, mockRenderer{})
	body, ct := multipartBody(t, uploadField, "a.csv", "LATITUDE;LONGITUDE\n-23;-46\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	if svc.got != "LATITUDE;LONGITUDE\n-23;-46\n" {
		t.Fatalf("pipeline received %q", svc.got)
	}
}

func TestRenderMap_NotMultipart(t *testing.T) {
	r := setupRouterWithMock(&mockPipeline{}, mockRenderer{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", strings.NewReader("a;b"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400 got %d", w.Code)
	}
}

func TestClassify_Success(t *testing.T) {
	r := setupRouterWithMock(&mockPipeline{resp: sampleResult()}, mockRenderer{})
	body, ct := multipartBody(t, uploadField, "a.csv", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	var out dto.ClassifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.RunID != "run-1" || len(out.Groups) != 1 || out.Groups[0].Name != "ANA" {
		t.Fatalf("unexpected body: %+v", out)
	}
	if out.Heat == nil {
		t.Fatalf("expected heat to decode as empty array")
	}
	if out.ColorCounts[models.ColorGreen] != 1 {
		t.Fatalf("unexpected color counts: %+v", out.ColorCounts)
	}
}

func TestArtifactName(t *testing.T) {
	cases := map[string]string{
		"clientes.csv":      "mapa_clientes.html",
		"../etc/passwd":     "mapa_passwd.html",
		"São Paulo.csv":     "mapa_S_o_Paulo.html",
		".csv":              "mapa_clientes.html",
		"dir/export-01.CSV": "mapa_export-01.html",
	}
	for in, want := range cases {
		if got := artifactName(in); got != want {
			t.Errorf("artifactName(%q) = %q, want %q", in, got, want)
		}
	}
}
