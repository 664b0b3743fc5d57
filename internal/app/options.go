package app

import (
	"fmt"
	"strings"

	"github.com/guttosm/tktmap/config"
	"github.com/guttosm/tktmap/internal/api"
	"github.com/guttosm/tktmap/internal/classifier"
	"github.com/guttosm/tktmap/internal/ingestion"
	"github.com/guttosm/tktmap/internal/render"
	"github.com/guttosm/tktmap/internal/service"
)

// PipelineOptions maps the loaded configuration to pipeline options.
// It fails when a numeric mode name is not recognized.
func PipelineOptions(cfg config.Config) (service.Options, error) {
	modes, err := fieldModes(cfg.Modes)
	if err != nil {
		return service.Options{}, err
	}

	return service.Options{
		Load: ingestion.Options{
			Columns:           columns(cfg.Columns),
			Modes:             modes,
			StrictCoordinates: cfg.Columns.StrictCoordinates,
			SampleSize:        cfg.Files.SniffSampleBytes,
		},
		Weights: classifier.Weights{
			Threshold: cfg.Heat.Threshold,
			High:      cfg.Heat.HighWeight,
			Low:       cfg.Heat.LowWeight,
		},
		HeatEnabled: cfg.Heat.Enabled,
	}, nil
}

// RenderOptions maps the loaded configuration to renderer options.
func RenderOptions(cfg config.Config) render.Options {
	opts := render.DefaultOptions()
	if cfg.Map.Title != "" {
		opts.Title = cfg.Map.Title
	}
	if cfg.Map.Zoom > 0 {
		opts.Zoom = cfg.Map.Zoom
	}
	opts.Threshold = cfg.Heat.Threshold
	return opts
}

// RouterOptions maps the server section to router limits.
func RouterOptions(cfg config.Config) api.RouterOptions {
	return api.RouterOptions{
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		RateLimit:      cfg.Server.RateLimitPerMinute,
	}
}

// columns overrides the default headers with the configured, non-empty names.
func columns(c config.ColumnsConfig) ingestion.Columns {
	out := ingestion.DefaultColumns()
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{c.Latitude, &out.Latitude},
		{c.Longitude, &out.Longitude},
		{c.Ticket, &out.Ticket},
		{c.Profit, &out.Profit},
		{c.Margin, &out.Margin},
		{c.Faixa, &out.Faixa},
		{c.SemComprar, &out.SemComprar},
		{c.Supervisor, &out.Supervisor},
		{c.CNPJ, &out.CNPJ},
		{c.Fantasia, &out.Fantasia},
		{c.Vendedor, &out.Vendedor},
		{c.Rota, &out.Rota},
		{c.FormaPagamento, &out.FormaPagamento},
	} {
		if name := strings.TrimSpace(f.name); name != "" {
			*f.dst = name
		}
	}
	return out
}

func fieldModes(m config.ModesConfig) (ingestion.FieldModes, error) {
	var out ingestion.FieldModes
	for _, f := range []struct {
		key string
		raw string
		dst *ingestion.Mode
	}{
		{"MODE_LATITUDE", m.Latitude, &out.Latitude},
		{"MODE_LONGITUDE", m.Longitude, &out.Longitude},
		{"MODE_TICKET", m.Ticket, &out.Ticket},
		{"MODE_PROFIT", m.Profit, &out.Profit},
		{"MODE_MARGIN", m.Margin, &out.Margin},
	} {
		mode, err := ingestion.ParseMode(f.raw)
		if err != nil {
			return ingestion.FieldModes{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = mode
	}
	return out, nil
}
