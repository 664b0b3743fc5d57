package ingestion

import (
	"bytes"
)

const (
	// DefaultSampleSize is how many bytes of the source the sniffer looks at.
	DefaultSampleSize = 2048
	// FallbackDelimiter is used whenever detection is inconclusive.
	FallbackDelimiter = ';'
	// minConsistency is the share of lines a candidate must agree on when neither
	// candidate is consistent on every line.
	minConsistency = 0.9
)

// candidates are tried in this order; the first one also wins ties.
var candidates = []rune{';', ','}

// Sniff infers the field delimiter from the beginning of a file.
//
// Behavior:
//   - Only ';' and ',' are considered.
//   - When truncated is set the trailing partial line is ignored.
//   - A candidate is consistent when it appears the same non-zero number of
//     times, outside double quotes, on every line.
//   - Exactly one consistent candidate wins. When both are consistent, ';' wins
//     since ',' is the pt-BR decimal mark.
//   - Otherwise the candidate agreeing on at least 90% of the lines wins if it is
//     the only one that does.
//   - Anything else falls back to ';'. Sniff never fails.
func Sniff(sample []byte, truncated bool) rune {
	lines := sampleLines(sample, truncated)
	if len(lines) == 0 {
		return FallbackDelimiter
	}

	scores := make(map[rune]float64, len(candidates))
	for _, c := range candidates {
		scores[c] = consistency(lines, c)
	}

	for _, c := range candidates {
		if scores[c] == 1 {
			return c
		}
	}

	var best rune
	found := 0
	for _, c := range candidates {
		if scores[c] >= minConsistency {
			best = c
			found++
		}
	}
	if found == 1 {
		return best
	}
	return FallbackDelimiter
}

func sampleLines(sample []byte, truncated bool) [][]byte {
	sample = bytes.TrimPrefix(sample, []byte("\xef\xbb\xbf"))
	partial := truncated && !bytes.HasSuffix(sample, []byte("\n"))

	raw := bytes.Split(sample, []byte("\n"))
	if partial && len(raw) > 1 {
		raw = raw[:len(raw)-1]
	}

	out := make([][]byte, 0, len(raw))
	for _, l := range raw {
		l = bytes.TrimRight(l, "\r")
		if len(bytes.TrimSpace(l)) == 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}

// consistency returns the share of lines whose count of delim equals the most
// common non-zero count. Zero means the delimiter never appears.
func consistency(lines [][]byte, delim rune) float64 {
	freq := make(map[int]int)
	for _, l := range lines {
		freq[countOutsideQuotes(l, byte(delim))]++
	}

	modal, modalLines := 0, 0
	for n, k := range freq {
		if n == 0 {
			continue
		}
		if k > modalLines || (k == modalLines && n > modal) {
			modal, modalLines = n, k
		}
	}
	if modal == 0 {
		return 0
	}
	return float64(modalLines) / float64(len(lines))
}

func countOutsideQuotes(line []byte, delim byte) int {
	n := 0
	quoted := false
	for _, b := range line {
		switch {
		case b == '"':
			quoted = !quoted
		case b == delim && !quoted:
			n++
		}
	}
	return n
}
