package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/golang/geo/s2"

	"github.com/guttosm/tktmap/internal/domain/models"
	"github.com/guttosm/tktmap/internal/logger"
)

// Columns holds the header names of the fields the pipeline reads.
// Lookup is exact after trimming, falling back to a case-insensitive match.
type Columns struct {
	Latitude       string
	Longitude      string
	Ticket         string
	Profit         string
	Margin         string
	Faixa          string
	SemComprar     string
	Supervisor     string
	CNPJ           string
	Fantasia       string
	Vendedor       string
	Rota           string
	FormaPagamento string
}

// DefaultColumns returns the headers of the "mapa tkt médio" export.
func DefaultColumns() Columns {
	return Columns{
		Latitude:       "LATITUDE",
		Longitude:      "LONGITUDE",
		Ticket:         "TKT MED",
		Profit:         "LUCRO MEDIO",
		Margin:         "MARGEM",
		Faixa:          "FAIXA",
		SemComprar:     "SEM COMPRAR?",
		Supervisor:     "SUPERVISOR",
		CNPJ:           "CNPJ",
		Fantasia:       "FANTASIA",
		Vendedor:       "VENDEDOR",
		Rota:           "ROTA",
		FormaPagamento: "FORMA DE PAGAMENTO",
	}
}

// Options configures one load.
type Options struct {
	Columns Columns
	Modes   FieldModes
	// StrictCoordinates drops rows whose coordinates are outside the valid
	// latitude/longitude range instead of only flagging them.
	StrictCoordinates bool
	// SampleSize is how many bytes the delimiter sniffer sees (0 = DefaultSampleSize).
	SampleSize int
}

// DefaultOptions returns the default columns with every numeric field in ModeSimple.
func DefaultOptions() Options {
	return Options{Columns: DefaultColumns(), Modes: DefaultFieldModes(), SampleSize: DefaultSampleSize}
}

// LoadResult is the set of rows that survived loading plus diagnostics.
type LoadResult struct {
	Records []models.NormalizedRecord
	Stats   models.LoadStats
}

// columnIndex holds the header name each field resolved to, "" when absent.
type columnIndex struct {
	lat, lon, ticket, profit, margin   string
	faixa, semComprar, supervisor      string
	cnpj, fantasia, vendedor, rota, fp string
}

// headerNames trims the header cells and strips a leading BOM.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		names[i] = strings.TrimSpace(h)
	}
	return names
}

func indexHeader(names []string, c Columns) columnIndex {
	find := func(want string) string {
		want = strings.TrimSpace(want)
		if want == "" {
			return ""
		}
		for _, n := range names {
			if n == want {
				return n
			}
		}
		for _, n := range names {
			if strings.EqualFold(n, want) {
				return n
			}
		}
		return ""
	}

	return columnIndex{
		lat:        find(c.Latitude),
		lon:        find(c.Longitude),
		ticket:     find(c.Ticket),
		profit:     find(c.Profit),
		margin:     find(c.Margin),
		faixa:      find(c.Faixa),
		semComprar: find(c.SemComprar),
		supervisor: find(c.Supervisor),
		cnpj:       find(c.CNPJ),
		fantasia:   find(c.Fantasia),
		vendedor:   find(c.Vendedor),
		rota:       find(c.Rota),
		fp:         find(c.FormaPagamento),
	}
}

// rawRecord keys rec by header name. Missing trailing cells are absent and a
// repeated header name keeps its first cell.
func rawRecord(names, rec []string) models.RawRecord {
	raw := make(models.RawRecord, len(names))
	for i, n := range names {
		if i >= len(rec) {
			break
		}
		if n == "" {
			continue
		}
		if _, dup := raw[n]; !dup {
			raw[n] = rec[i]
		}
	}
	return raw
}

// swallowedLines reports how many extra source lines a record spans. A stray
// opening quote makes the lazy reader fold the following rows into one cell.
func swallowedLines(rec []string) int {
	n := 0
	for _, cell := range rec {
		n += strings.Count(strings.TrimRight(cell, "\r\n"), "\n")
	}
	return n
}

// Load parses text with the given delimiter and normalizes every row.
//
// It fails on:
//   - no header (ErrEmptySource)
//   - header without the latitude/longitude columns (ErrMissingCoordinates)
//   - header with no data rows (ErrNoRows)
//   - unrecoverable read errors or ctx cancellation
//
// It tolerates:
//   - absent optional columns (every cell missing)
//   - short rows (trailing cells missing)
//   - malformed numeric cells (missing, or 0 for the profit column)
//   - malformed CSV rows and rows without valid coordinates (dropped and counted)
//   - an unterminated quote folding later rows into one cell (every folded row
//     dropped and counted as malformed)
func Load(ctx context.Context, text []byte, delim rune, opts Options) (*LoadResult, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySource
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	names := headerNames(header)
	idx := indexHeader(names, opts.Columns)
	if idx.lat == "" || idx.lon == "" {
		return nil, fmt.Errorf("%w: header must have %q and %q",
			ErrMissingCoordinates, opts.Columns.Latitude, opts.Columns.Longitude)
	}

	res := &LoadResult{Stats: models.LoadStats{
		Delimiter:    string(delim),
		SuspectCells: map[string]int{},
	}}
	suspect := func(col string) { res.Stats.SuspectCells[col]++ }

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Stats.RowsRead++
				res.Stats.MalformedRows++
				res.Stats.RowsDropped++
				logger.L().Warn().Int("line", pe.StartLine).Err(err).Msg("malformed row dropped")
				continue
			}
			return nil, fmt.Errorf("read row after %d: %w", res.Stats.RowsRead, err)
		}
		line, _ := r.FieldPos(0)
		if extra := swallowedLines(rec); extra > 0 {
			n := extra + 1
			res.Stats.RowsRead += n
			res.Stats.MalformedRows += n
			res.Stats.RowsDropped += n
			logger.L().Warn().Int("line", line).Int("rows", n).
				Msg("unterminated quote spans several lines; rows dropped")
			continue
		}
		res.Stats.RowsRead++

		nr, ok := normalizeRow(rawRecord(names, rec), line, idx, opts, suspect)
		if !ok {
			res.Stats.RowsDropped++
			continue
		}
		res.Records = append(res.Records, nr)
	}

	if res.Stats.RowsRead == 0 {
		return nil, ErrNoRows
	}
	res.Stats.RowsKept = len(res.Records)

	for col, n := range res.Stats.SuspectCells {
		logger.L().Warn().Str("column", col).Int("cells", n).
			Msg("values look formatted for a different numeric mode; check the column mode")
	}
	if len(res.Stats.SuspectCells) == 0 {
		res.Stats.SuspectCells = nil
	}

	return res, nil
}

// normalizeRow converts one CSV record. ok is false when the row must be dropped.
func normalizeRow(raw models.RawRecord, line int, idx columnIndex, opts Options, suspect func(string)) (models.NormalizedRecord, bool) {
	text := func(name string) string { return strings.TrimSpace(raw[name]) }
	number := func(name, col string, mode Mode) models.NullFloat {
		v := raw[name]
		if SuspectMode(v, mode) {
			suspect(col)
		}
		return Normalize(v, mode)
	}

	c := opts.Columns
	lat := number(idx.lat, c.Latitude, opts.Modes.Latitude)
	lon := number(idx.lon, c.Longitude, opts.Modes.Longitude)
	if !lat.Valid || !lon.Valid {
		return models.NormalizedRecord{}, false
	}

	if ll := s2.LatLngFromDegrees(lat.Value, lon.Value); !ll.IsValid() {
		if opts.StrictCoordinates {
			return models.NormalizedRecord{}, false
		}
		if math.Abs(lat.Value) > 90 {
			suspect(c.Latitude)
		}
		if math.Abs(lon.Value) > 180 {
			suspect(c.Longitude)
		}
	}

	return models.NormalizedRecord{
		Line:           line,
		Latitude:       lat.Value,
		Longitude:      lon.Value,
		TicketMedio:    number(idx.ticket, c.Ticket, opts.Modes.Ticket),
		LucroMedio:     number(idx.profit, c.Profit, opts.Modes.Profit).Or(0),
		MarginPercent:  number(idx.margin, c.Margin, opts.Modes.Margin),
		Faixa:          text(idx.faixa),
		SemComprar:     text(idx.semComprar),
		Supervisor:     text(idx.supervisor),
		CNPJ:           text(idx.cnpj),
		Fantasia:       text(idx.fantasia),
		Vendedor:       text(idx.vendedor),
		Rota:           text(idx.rota),
		FormaPagamento: text(idx.fp),
	}, true
}
