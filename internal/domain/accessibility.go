package domain

import "time"

// AccessibilityReport describes how reachable a place is for wheelchair
// users and people with reduced mobility.
type AccessibilityReport struct {
	PlaceID   string
	PlaceName string

	Summary              string
	Score                int // 0..100
	Recommendations      []string
	HighlightedObstacles []string

	HasStairs          bool
	StairsCount        int
	HasRamp            bool
	EntranceAccessible bool

	Facilities Facilities

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Facilities struct {
	Entrance Facility
	Restroom Facility
	Parking  Facility
	Elevator Facility
}

type Facility struct {
	Available bool
	Features  []string
}
