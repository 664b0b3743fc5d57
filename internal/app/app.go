package app

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tktmap/config"
	"github.com/guttosm/tktmap/internal/api"
	"github.com/guttosm/tktmap/internal/domain/models"
	"github.com/guttosm/tktmap/internal/observability"
	"github.com/guttosm/tktmap/internal/render"
	"github.com/guttosm/tktmap/internal/service"
)

// indirection for unit testing; the default registry rejects duplicate collectors
var newMetrics = observability.NewMetrics

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Maps config.AppConfig to pipeline, renderer and router options.
//   - Registers the pipeline metrics on the default Prometheus registry.
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	opts, err := PipelineOptions(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	// Initialize service layer (business logic)
	svc := service.NewPipelineService(opts, nil, newMetrics())
	renderer := render.New(RenderOptions(cfg))

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc, renderer)

	// Setup Gin router with routes
	router := api.NewRouter(handler, RouterOptions(cfg))

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(func() error { return probe(renderer) })
	healthHandler.Register(router)

	// Nothing is held open between requests.
	cleanup := func() {}

	return router, cleanup, nil
}

// probe renders an empty result so a broken template surfaces on /readyz.
func probe(r *render.Renderer) error {
	return r.Render(io.Discard, &models.Result{GeneratedAt: time.Now()})
}
