package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/httpserver/deps"
)

// The report keeps the snake_case layout the web client already renders.
type accessibilityDTO struct {
	PlaceID              string          `json:"place_id"`
	PlaceName            string          `json:"place_name"`
	Summary              string          `json:"summary"`
	Score                int             `json:"accessibility_score"`
	Recommendations      []string        `json:"recommendations"`
	HighlightedObstacles []string        `json:"highlighted_obstacles"`
	AIAnalysis           aiAnalysisDTO   `json:"ai_analysis"`
	FacilityDetails      facilityDetails `json:"facility_details"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type aiAnalysisDTO struct {
	HasStairs          bool `json:"has_stairs"`
	StairsCount        int  `json:"stairs_count"`
	HasRamp            bool `json:"has_ramp"`
	EntranceAccessible bool `json:"entrance_accessible"`
}

type facilityDetails struct {
	Entrance facilityDTO `json:"entrance"`
	Restroom facilityDTO `json:"restroom"`
	Parking  facilityDTO `json:"parking"`
	Elevator facilityDTO `json:"elevator"`
}

type facilityDTO struct {
	Available bool     `json:"available"`
	Features  []string `json:"features"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toFacilityDTO(f domain.Facility) facilityDTO {
	return facilityDTO{Available: f.Available, Features: nonNil(f.Features)}
}

func toAccessibilityDTO(rep *domain.AccessibilityReport) accessibilityDTO {
	return accessibilityDTO{
		PlaceID:              rep.PlaceID,
		PlaceName:            rep.PlaceName,
		Summary:              rep.Summary,
		Score:                rep.Score,
		Recommendations:      nonNil(rep.Recommendations),
		HighlightedObstacles: nonNil(rep.HighlightedObstacles),
		AIAnalysis: aiAnalysisDTO{
			HasStairs:          rep.HasStairs,
			StairsCount:        rep.StairsCount,
			HasRamp:            rep.HasRamp,
			EntranceAccessible: rep.EntranceAccessible,
		},
		FacilityDetails: facilityDetails{
			Entrance: toFacilityDTO(rep.Facilities.Entrance),
			Restroom: toFacilityDTO(rep.Facilities.Restroom),
			Parking:  toFacilityDTO(rep.Facilities.Parking),
			Elevator: toFacilityDTO(rep.Facilities.Elevator),
		},
		UpdatedAt: rep.UpdatedAt,
	}
}

// PlaceAccessibility serves GET /api/places/{poiId}/accessibility.
func PlaceAccessibility(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := d.Reports.Get(r.Context(), chi.URLParam(r, "poiId"))
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toAccessibilityDTO(rep))
	}
}
