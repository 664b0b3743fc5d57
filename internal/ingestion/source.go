package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrEmptySource is returned when the input has no content at all.
	ErrEmptySource = errors.New("empty source")
	// ErrInvalidEncoding is returned when the input is not valid UTF-8 (or BOM-marked UTF-16).
	ErrInvalidEncoding = errors.New("invalid encoding: expected UTF-8")
	// ErrNoRows is returned when the input has a header but no data rows.
	ErrNoRows = errors.New("no data rows")
	// ErrMissingCoordinates is returned when the header lacks a coordinate column.
	ErrMissingCoordinates = errors.New("missing coordinate columns")
)

// ReadSource reads the whole input and returns it as UTF-8 without a byte-order mark.
//
// A UTF-8 BOM is stripped; UTF-16 input marked with a BOM is transcoded; anything
// else must already be valid UTF-8.
func ReadSource(r io.Reader) ([]byte, error) {
	dec := unicode.BOMOverride(transform.Nop)
	b, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, ErrEmptySource
	}
	if !utf8.Valid(b) {
		return nil, ErrInvalidEncoding
	}
	return b, nil
}

// Sample returns the prefix of text the sniffer should look at and whether
// text was cut to fit size.
func Sample(text []byte, size int) ([]byte, bool) {
	if size <= 0 {
		size = DefaultSampleSize
	}
	if len(text) > size {
		return text[:size], true
	}
	return text, false
}

// LoadReader reads, sniffs and loads one input.
func LoadReader(ctx context.Context, r io.Reader, opts Options) (*LoadResult, error) {
	text, err := ReadSource(r)
	if err != nil {
		return nil, err
	}
	sample, cut := Sample(text, opts.SampleSize)
	delim := Sniff(sample, cut)
	return Load(ctx, text, delim, opts)
}

// LoadFile opens path, loads it and always closes the handle.
//
// Errors:
//   - open failures are wrapped as "open: ...".
//   - structural failures wrap the sentinels of this package.
func LoadFile(ctx context.Context, path string, opts Options) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(ctx, f, opts)
}

// IsStructural reports whether err means the input as a whole could not be used.
func IsStructural(err error) bool {
	return errors.Is(err, ErrEmptySource) ||
		errors.Is(err, ErrInvalidEncoding) ||
		errors.Is(err, ErrNoRows) ||
		errors.Is(err, ErrMissingCoordinates)
}
