package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tktmap/internal/domain/dto"
	"github.com/guttosm/tktmap/internal/domain/models"
	"github.com/guttosm/tktmap/internal/middleware"
	"github.com/guttosm/tktmap/internal/service"
)

const uploadField = "file"

// MapRenderer writes a classified Result as an HTML artifact.
type MapRenderer interface {
	Render(w io.Writer, res *models.Result) error
}

// Handler provides HTTP handlers for the upload endpoints.
//
// Responsibilities:
//   - Accept one multipart CSV upload per request
//   - Run one independent pipeline per upload
//   - Translate pipeline results into HTML artifacts or response DTOs
//   - Map structural input failures to 422 and oversize uploads to 413
type Handler struct {
	svc      service.PipelineService
	renderer MapRenderer
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.PipelineService, renderer MapRenderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

// RenderMap handles POST /api/v1/maps requests.
//
// RenderMap godoc
// @Summary      Render a customer map
// @Description  Classifies the uploaded CSV and returns a standalone HTML map with one layer per supervisor
// @Tags         maps
// @Accept       multipart/form-data
// @Produce      html
// @Param        file  formData  file  true  "CSV export (';' or ',' separated, UTF-8)"
// @Success      200   {string}  string            "HTML map"
// @Failure      400   {object}  dto.ErrorResponse "Bad Request"
// @Failure      413   {object}  dto.ErrorResponse "Upload too large"
// @Failure      422   {object}  dto.ErrorResponse "Unusable input file"
// @Failure      500   {object}  dto.ErrorResponse "Internal Error"
// @Router       /api/v1/maps [post]
func (h *Handler) RenderMap(c *gin.Context) {
	res, name, ok := h.run(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, res); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to render map", err)
		return
	}

	setStatsHeaders(c, res.Stats)
	c.Header("Content-Disposition", `attachment; filename="`+artifactName(name)+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Classify handles POST /api/v1/classify requests.
//
// Classify godoc
// @Summary      Classify customers
// @Description  Returns the classified records grouped by supervisor, heat points and load statistics
// @Tags         maps
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV export (';' or ',' separated, UTF-8)"
// @Success      200   {object}  dto.ClassifyResponse "Success"
// @Failure      400   {object}  dto.ErrorResponse    "Bad Request"
// @Failure      413   {object}  dto.ErrorResponse    "Upload too large"
// @Failure      422   {object}  dto.ErrorResponse    "Unusable input file"
// @Failure      500   {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/classify [post]
func (h *Handler) Classify(c *gin.Context) {
	res, _, ok := h.run(c)
	if !ok {
		return
	}
	setStatsHeaders(c, res.Stats)
	c.JSON(http.StatusOK, dto.NewClassifyResponse(res))
}

// run opens the uploaded file and executes the pipeline. When ok is false a
// response has already been written.
func (h *Handler) run(c *gin.Context) (*models.Result, string, bool) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, "upload too large", err)
			return nil, "", false
		}
		middleware.AbortWithError(c, http.StatusBadRequest, "multipart field \"file\" is required", err)
		return nil, "", false
	}

	res, err := h.runFile(c.Request.Context(), fh)
	if err != nil {
		switch {
		case service.IsStructural(err):
			middleware.AbortWithError(c, http.StatusUnprocessableEntity, "invalid input file", err)
		case errors.Is(err, context.DeadlineExceeded):
			middleware.AbortWithError(c, http.StatusGatewayTimeout, "processing timed out", err)
		default:
			middleware.AbortWithError(c, http.StatusInternalServerError, "failed to process file", err)
		}
		return nil, "", false
	}
	return res, fh.Filename, true
}

func (h *Handler) runFile(ctx context.Context, fh *multipart.FileHeader) (*models.Result, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return h.svc.Run(ctx, f)
}

func setStatsHeaders(c *gin.Context, st models.LoadStats) {
	c.Header("X-Rows-Read", strconv.Itoa(st.RowsRead))
	c.Header("X-Rows-Kept", strconv.Itoa(st.RowsKept))
	c.Header("X-Rows-Dropped", strconv.Itoa(st.RowsDropped))
}

// artifactName derives "mapa_<upload>.html" from the uploaded file name.
func artifactName(upload string) string {
	base := strings.TrimSuffix(filepath.Base(upload), filepath.Ext(upload))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "_" || base == "." {
		base = "clientes"
	}
	return "mapa_" + base + ".html"
}
