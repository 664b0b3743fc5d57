package ingestion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/guttosm/tktmap/internal/domain/models"
)

// Mode selects how a locale-formatted number is read.
type Mode int

const (
	// ModeSimple reads "1234,56" as 1234.56: comma is the decimal mark, dots are kept.
	ModeSimple Mode = iota
	// ModeThousands reads "1.234,56" as 1234.56: dots are thousands separators and dropped.
	ModeThousands
)

func (m Mode) String() string {
	switch m {
	case ModeThousands:
		return "thousands"
	default:
		return "simple"
	}
}

// ParseMode maps a configuration value ("simple" or "thousands") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "":
		return ModeSimple, nil
	case "thousands", "thousands-aware":
		return ModeThousands, nil
	default:
		return ModeSimple, fmt.Errorf("unknown numeric mode %q (want simple or thousands)", s)
	}
}

// FieldModes holds the numeric mode of each numeric column.
// Which columns carry thousands grouping depends on the export, so nothing here
// is inferred from the data.
type FieldModes struct {
	Latitude  Mode
	Longitude Mode
	Ticket    Mode
	Profit    Mode
	Margin    Mode
}

// DefaultFieldModes reads every numeric column in ModeSimple.
func DefaultFieldModes() FieldModes {
	return FieldModes{}
}

// clean keeps only digits, '.', ',' and '-'.
func clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize converts a pt-BR formatted number into a NullFloat.
//
// Steps:
//  1. Strip every character that is not a digit, '.', ',' or '-'.
//  2. ModeThousands only: drop every '.'.
//  3. Replace ',' with '.' and parse.
//
// Empty, malformed or non-finite input yields a missing value. It never fails.
func Normalize(raw string, mode Mode) models.NullFloat {
	s := clean(raw)
	if mode == ModeThousands {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return models.Missing()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return models.Missing()
	}
	return models.Float(v)
}

// SuspectMode reports whether raw looks like it was written for the other mode.
//
//   - ModeSimple: both '.' and ',' present, or more than one '.' ("1.234,56", "1.234.567").
//   - ModeThousands: a '.' whose trailing group is not exactly three digits and no ','
//     ("12.5" would silently become 125).
func SuspectMode(raw string, mode Mode) bool {
	s := clean(raw)
	dots := strings.Count(s, ".")
	if dots == 0 {
		return false
	}
	commas := strings.Count(s, ",")

	switch mode {
	case ModeThousands:
		if commas > 0 {
			return false
		}
		last := s[strings.LastIndexByte(s, '.')+1:]
		return len(last) != 3
	default:
		return commas > 0 || dots > 1
	}
}
