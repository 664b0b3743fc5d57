package main

//
//  @title           tktmap API
//  @version         1.0
//  @description     Customer ticket map: classifies a CSV export and renders a Leaflet map per supervisor.
//  @termsOfService  https://github.com/guttosm/tktmap
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/tktmap
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        maps
//  @tag.description Upload a customer export and get a map or its classification
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/tktmap/config"
	_ "github.com/guttosm/tktmap/docs" // swagger docs
	"github.com/guttosm/tktmap/internal/app"
	"github.com/guttosm/tktmap/internal/domain/models"
	"github.com/guttosm/tktmap/internal/logger"
	"github.com/guttosm/tktmap/internal/observability"
	"github.com/guttosm/tktmap/internal/render"
	"github.com/guttosm/tktmap/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runRender classifies the CSV at in and writes the HTML map to out.
// Nothing is written to out when the run fails.
func runRender(ctx context.Context, cfg config.Config, in, out string, metrics *observability.Metrics) (*models.Result, error) {
	opts, err := app.PipelineOptions(cfg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	svc := service.NewPipelineService(opts, nil, metrics)
	res, err := svc.Run(ctx, f)
	if err != nil {
		return nil, err
	}

	if err := render.New(app.RenderOptions(cfg)).WriteFile(out, res); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	return res, nil
}

// main is the entry point of the tktmap application.
//
// Modes (selected via --mode flag):
//   - render: Reads one CSV export and writes the standalone HTML map.
//   - api:    Starts the REST API that accepts uploads and returns maps.
//
// Flags:
//   - --mode: Execution mode ("render" or "api"). Default: "render".
//   - --in:   Input CSV path. Defaults to INPUT_PATH.
//   - --out:  Output HTML path. Defaults to OUTPUT_PATH.
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "render", "Mode: render or api")
	in := flag.String("in", config.AppConfig.Files.InputPath, "Input CSV export")
	out := flag.String("out", config.AppConfig.Files.OutputPath, "Output HTML map")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "render":
		logger.L().Info().Str("in", *in).Str("out", *out).Msg("rendering map")

		res, err := runRender(ctx, config.AppConfig, *in, *out, observability.NewMetrics())
		if err != nil {
			event := logger.L().Fatal().Err(err)
			if service.IsStructural(err) {
				event = event.Bool("structural", true)
			}
			event.Msg("render failed")
		}
		logger.L().Info().
			Str("run_id", res.RunID).
			Int("rows_read", res.Stats.RowsRead).
			Int("rows_kept", res.Stats.RowsKept).
			Int("rows_dropped", res.Stats.RowsDropped).
			Int("groups", len(res.Groups)).
			Str("out", *out).
			Msg("map written")

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
