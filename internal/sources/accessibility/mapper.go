package accessibility

import (
	"fmt"
	"strings"

	"github.com/ablemap/ablemap/internal/domain"
)

// Mapper converts file entries into domain reports.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// Result is the outcome of one mapping pass.
type Result struct {
	Reports []*domain.AccessibilityReport
	Skipped int // entries without place id or summary, or with a score outside 0..100
}

// MapReports validates entries. A later entry for the same place replaces
// an earlier one. An empty result is an error, like an unreadable file.
func (m *Mapper) MapReports(f File) (Result, error) {
	var res Result
	byPlace := make(map[string]int, len(f.Reports))

	for _, e := range f.Reports {
		placeID := strings.TrimSpace(e.PlaceID)
		summary := strings.TrimSpace(e.Summary)
		if placeID == "" || summary == "" || e.Score < 0 || e.Score > 100 {
			res.Skipped++
			continue
		}

		report := &domain.AccessibilityReport{
			PlaceID:              placeID,
			PlaceName:            strings.TrimSpace(e.PlaceName),
			Summary:              summary,
			Score:                e.Score,
			Recommendations:      cleanList(e.Recommendations),
			HighlightedObstacles: cleanList(e.HighlightedObstacles),
			HasStairs:            e.Analysis.HasStairs || e.Analysis.StairsCount > 0,
			StairsCount:          max(e.Analysis.StairsCount, 0),
			HasRamp:              e.Analysis.HasRamp,
			EntranceAccessible:   e.Analysis.EntranceAccessible,
			Facilities: domain.Facilities{
				Entrance: mapFacility(e.Facilities.Entrance),
				Restroom: mapFacility(e.Facilities.Restroom),
				Parking:  mapFacility(e.Facilities.Parking),
				Elevator: mapFacility(e.Facilities.Elevator),
			},
		}

		if i, seen := byPlace[placeID]; seen {
			res.Reports[i] = report
			continue
		}
		byPlace[placeID] = len(res.Reports)
		res.Reports = append(res.Reports, report)
	}

	if len(res.Reports) == 0 {
		return res, fmt.Errorf("no valid accessibility reports found (%d skipped)", res.Skipped)
	}
	return res, nil
}

func mapFacility(f FacilityEntry) domain.Facility {
	return domain.Facility{Available: f.Available, Features: cleanList(f.Features)}
}

// cleanList trims items and drops blanks and duplicates, keeping order.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
