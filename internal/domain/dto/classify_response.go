package dto

import (
	"time"

	"github.com/guttosm/tktmap/internal/domain/models"
)

// ClassifyResponse is returned by POST /api/v1/classify.
//
// Fields match the API contract and may differ from internal domain models.
type ClassifyResponse struct {
	RunID       string                   `json:"run_id" example:"3f1c0f8e-6d1e-4a4c-9a59-0c1f1b2f7e11"`
	GeneratedAt time.Time                `json:"generated_at"`
	Stats       models.LoadStats         `json:"stats"`
	ColorCounts map[models.Color]int     `json:"color_counts"`
	Bounds      models.Bounds            `json:"bounds"`
	Groups      []models.SupervisorGroup `json:"groups"`
	Heat        []models.HeatPoint       `json:"heat"`
}

// NewClassifyResponse maps a pipeline Result to the API contract.
func NewClassifyResponse(res *models.Result) ClassifyResponse {
	heat := res.Heat
	if heat == nil {
		heat = []models.HeatPoint{}
	}
	return ClassifyResponse{
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt,
		Stats:       res.Stats,
		ColorCounts: res.ColorCounts,
		Bounds:      res.Bounds,
		Groups:      res.Groups,
		Heat:        heat,
	}
}
