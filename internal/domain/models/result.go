package models

import "time"

// UnassignedSupervisor names the group for records with an empty supervisor cell.
const UnassignedSupervisor = "(sem supervisor)"

// SupervisorGroup holds the classified records of one supervisor.
// Each group becomes one toggleable map layer.
type SupervisorGroup struct {
	Name    string             `json:"name" example:"JOAO"`
	Records []ClassifiedRecord `json:"records"`
}

// Bounds is the bounding box of the kept records plus the initial map center.
type Bounds struct {
	South     float64 `json:"south"`
	West      float64 `json:"west"`
	North     float64 `json:"north"`
	East      float64 `json:"east"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
}

// LoadStats describes what happened to the rows of one input file.
//
// Fields:
//   - RowsRead: data rows seen (header excluded).
//   - RowsKept: rows with valid coordinates.
//   - RowsDropped: rows discarded (coordinates or malformed CSV).
//   - MalformedRows: subset of RowsDropped the CSV reader could not parse.
//   - Delimiter: the sniffed field separator.
//   - SuspectCells: per column, cells whose format hints at the wrong numeric mode.
type LoadStats struct {
	RowsRead      int            `json:"rows_read"`
	RowsKept      int            `json:"rows_kept"`
	RowsDropped   int            `json:"rows_dropped"`
	MalformedRows int            `json:"malformed_rows"`
	Delimiter     string         `json:"delimiter" example:";"`
	SuspectCells  map[string]int `json:"suspect_cells,omitempty"`
}

// Result is the output of one pipeline run, ready for the map renderer.
type Result struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Groups      []SupervisorGroup `json:"groups"`
	Heat        []HeatPoint       `json:"heat,omitempty"`
	Bounds      Bounds            `json:"bounds"`
	Stats       LoadStats         `json:"stats"`
	ColorCounts map[Color]int     `json:"color_counts"`
}

// Total returns the number of classified records across all groups.
func (r *Result) Total() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Records)
	}
	return n
}
