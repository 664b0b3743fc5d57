package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/tktmap/internal/domain/models"
	"github.com/guttosm/tktmap/internal/ingestion"
	"github.com/guttosm/tktmap/internal/observability"
)

const sampleCSV = "CNPJ;FANTASIA;SUPERVISOR;VENDEDOR;FAIXA;SEM COMPRAR?;TKT MED;LUCRO MEDIO;MARGEM;LATITUDE;LONGITUDE\n" +
	"1;Loja A;BIA;V1;REGULAR;;50,00;10,00;10,0;-23,50;-46,60\n" +
	"2;Loja B;ANA;V2;BAIXO;;0,00;0;30,0;-23,60;-46,70\n" +
	"3;Loja C;ANA;V2;MAXIMO;negociacao;10,00;;;-23,40;-46,50\n" +
	"4;Loja D;;V3;BAIXO;;;;;-23,70;-46,80\n" +
	"5;Loja E;ANA;V2;ACIMA;;200;;;x;-46,80\n"

func newTestService(t *testing.T, opts Options) (PipelineService, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC))
	return NewPipelineService(opts, clock, observability.NewMetricsForTesting()), clock
}

func TestRun_ClassifiesAndGroups(t *testing.T) {
	svc, clock := newTestService(t, DefaultOptions())

	res, err := svc.Run(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, clock.Now(), res.GeneratedAt)
	assert.Equal(t, 5, res.Stats.RowsRead)
	assert.Equal(t, 4, res.Stats.RowsKept)
	assert.Equal(t, 1, res.Stats.RowsDropped)
	assert.Equal(t, 4, res.Total())

	names := make([]string, 0, len(res.Groups))
	for _, g := range res.Groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{models.UnassignedSupervisor, "ANA", "BIA"}, names)

	colorByCNPJ := map[string]models.Color{}
	for _, g := range res.Groups {
		for _, r := range g.Records {
			colorByCNPJ[r.CNPJ] = r.Color
		}
	}
	assert.Equal(t, models.ColorGreen, colorByCNPJ["1"])
	assert.Equal(t, models.ColorGray, colorByCNPJ["2"])
	assert.Equal(t, models.ColorOrange, colorByCNPJ["3"])
	assert.Equal(t, models.ColorRed, colorByCNPJ["4"])
	assert.Equal(t, map[models.Color]int{
		models.ColorGreen: 1, models.ColorGray: 1, models.ColorOrange: 1, models.ColorRed: 1,
	}, res.ColorCounts)

	// only rows 1 and 2 carry a margin
	require.Len(t, res.Heat, 2)
	for _, h := range res.Heat {
		assert.Greater(t, h.Weight, 0.0)
	}

	assert.InDelta(t, -23.50, res.Bounds.CenterLat, 1e-9)
	assert.InDelta(t, -46.60, res.Bounds.CenterLng, 1e-9)
	assert.InDelta(t, -23.70, res.Bounds.South, 1e-9)
	assert.InDelta(t, -23.40, res.Bounds.North, 1e-9)
	assert.InDelta(t, -46.80, res.Bounds.West, 1e-9)
	assert.InDelta(t, -46.50, res.Bounds.East, 1e-9)
}

func TestRun_HeatDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.HeatEnabled = false
	svc, _ := newTestService(t, opts)

	res, err := svc.Run(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Empty(t, res.Heat)
}

func TestRun_StructuralFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{name: "empty", content: "", want: ingestion.ErrEmptySource},
		{name: "header only", content: "LATITUDE;LONGITUDE\n", want: ingestion.ErrNoRows},
		{name: "no coordinates", content: "CNPJ;FAIXA\n1;ACIMA\n", want: ingestion.ErrMissingCoordinates},
		{name: "every row dropped", content: "LATITUDE;LONGITUDE\nabc;def\n;\n", want: ErrNoValidRecords},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, DefaultOptions())
			res, err := svc.Run(context.Background(), strings.NewReader(tc.content))
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, res)
			assert.True(t, IsStructural(err))
		})
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	svc, _ := newTestService(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, strings.NewReader(sampleCSV))
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsStructural(err))
}

func TestNewPipelineService_Defaults(t *testing.T) {
	svc := NewPipelineService(DefaultOptions(), nil, nil)
	res, err := svc.Run(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.False(t, res.GeneratedAt.IsZero())
}
