package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/guttosm/tktmap/internal/classifier"
	"github.com/guttosm/tktmap/internal/domain/models"
	"github.com/guttosm/tktmap/internal/ingestion"
	"github.com/guttosm/tktmap/internal/logger"
	"github.com/guttosm/tktmap/internal/observability"
)

// ErrNoValidRecords is returned when every row was dropped during loading.
var ErrNoValidRecords = errors.New("no rows with valid coordinates")

// PipelineService turns one input file into classified, grouped map data.
// This decouples the HTTP handlers and the CLI from loading and classification.
type PipelineService interface {
	Run(ctx context.Context, src io.Reader) (*models.Result, error)
}

// Options configures a pipeline run.
type Options struct {
	Load        ingestion.Options
	Weights     classifier.Weights
	HeatEnabled bool
}

// DefaultOptions returns default loading, default weights and the heat layer on.
func DefaultOptions() Options {
	return Options{Load: ingestion.DefaultOptions(), Weights: classifier.DefaultWeights(), HeatEnabled: true}
}

type pipelineService struct {
	opts    Options
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewPipelineService builds a PipelineService. Runs share no state apart from the
// metrics collectors, which are safe for concurrent use.
func NewPipelineService(opts Options, clock clockwork.Clock, metrics *observability.Metrics) PipelineService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &pipelineService{opts: opts, clock: clock, metrics: metrics}
}

// IsStructural reports whether err means the input file as a whole was unusable.
func IsStructural(err error) bool {
	return ingestion.IsStructural(err) || errors.Is(err, ErrNoValidRecords)
}

// Run reads src, classifies every surviving row and groups the result by supervisor.
//
// Behavior:
//   - sniffs the delimiter and loads rows per the configured field modes.
//   - logs rows read/kept/dropped for the run.
//   - emits heat points only for records with a positive weight, when enabled.
//   - fails with ErrNoValidRecords when no row survives, so no empty map is produced.
func (s *pipelineService) Run(ctx context.Context, src io.Reader) (*models.Result, error) {
	start := s.clock.Now()
	runID := uuid.NewString()
	lg := logger.ForRun(runID)

	loaded, err := ingestion.LoadReader(ctx, src, s.opts.Load)
	if err != nil {
		s.observeFailure(err)
		lg.Error().Err(err).Msg("load failed")
		return nil, fmt.Errorf("load: %w", err)
	}

	st := loaded.Stats
	s.metrics.RowsRead.Add(float64(st.RowsRead))
	s.metrics.RowsKept.Add(float64(st.RowsKept))
	s.metrics.RowsDropped.Add(float64(st.RowsDropped))
	for col, n := range st.SuspectCells {
		s.metrics.SuspectCells.WithLabelValues(col).Add(float64(n))
	}
	lg.Info().
		Str("delimiter", st.Delimiter).
		Int("rows_read", st.RowsRead).
		Int("rows_kept", st.RowsKept).
		Int("rows_dropped", st.RowsDropped).
		Int("malformed_rows", st.MalformedRows).
		Msg("rows loaded")

	if len(loaded.Records) == 0 {
		s.observeFailure(ErrNoValidRecords)
		return nil, ErrNoValidRecords
	}

	res := &models.Result{
		RunID:       runID,
		GeneratedAt: start,
		Stats:       st,
		ColorCounts: make(map[models.Color]int, len(models.Colors)),
	}

	groups := make(map[string][]models.ClassifiedRecord)
	rect := s2.EmptyRect()
	for _, rec := range loaded.Records {
		c := classifier.ClassifyRecord(rec, s.opts.Weights)
		res.ColorCounts[c.Color]++
		s.metrics.Records.WithLabelValues(c.Color.String()).Inc()

		name := c.Supervisor
		if name == "" {
			name = models.UnassignedSupervisor
		}
		groups[name] = append(groups[name], c)

		if s.opts.HeatEnabled && c.HeatWeight > 0 {
			res.Heat = append(res.Heat, models.HeatPoint{Lat: c.Latitude, Lng: c.Longitude, Weight: c.HeatWeight})
		}
		if ll := s2.LatLngFromDegrees(c.Latitude, c.Longitude); ll.IsValid() {
			rect = rect.AddPoint(ll)
		}
	}

	res.Groups = sortedGroups(groups)
	res.Bounds = bounds(rect, loaded.Records[0])

	s.metrics.RunsTotal.WithLabelValues("success").Inc()
	s.metrics.RunDuration.Observe(s.clock.Since(start).Seconds())
	lg.Info().
		Int("groups", len(res.Groups)).
		Int("heat_points", len(res.Heat)).
		Interface("colors", res.ColorCounts).
		Msg("records classified")

	return res, nil
}

func (s *pipelineService) observeFailure(err error) {
	outcome := "error"
	if IsStructural(err) {
		outcome = "structural_error"
	}
	s.metrics.RunsTotal.WithLabelValues(outcome).Inc()
}

func sortedGroups(groups map[string][]models.ClassifiedRecord) []models.SupervisorGroup {
	names := make([]string, 0, len(groups))
	for n := range groups {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]models.SupervisorGroup, 0, len(names))
	for _, n := range names {
		out = append(out, models.SupervisorGroup{Name: n, Records: groups[n]})
	}
	return out
}

// bounds centers the map on the first record and spans every valid coordinate.
func bounds(rect s2.Rect, first models.NormalizedRecord) models.Bounds {
	b := models.Bounds{CenterLat: first.Latitude, CenterLng: first.Longitude}
	if rect.IsEmpty() {
		b.South, b.North = first.Latitude, first.Latitude
		b.West, b.East = first.Longitude, first.Longitude
		return b
	}
	lo, hi := rect.Lo(), rect.Hi()
	b.South, b.West = lo.Lat.Degrees(), lo.Lng.Degrees()
	b.North, b.East = hi.Lat.Degrees(), hi.Lng.Degrees()
	return b
}
