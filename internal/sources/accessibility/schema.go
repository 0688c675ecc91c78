package accessibility

// File is the root structure of the reports YAML file.
//
//	reports:
//	  - place_id: "8134728"
//	    place_name: Seoul City Hall
//	    summary: Step-free main entrance with an elevator to every floor.
//	    accessibility_score: 85
//	    recommendations: [Use the east entrance]
//	    highlighted_obstacles: [Heavy door]
//	    ai_analysis: {has_stairs: false, stairs_count: 0, has_ramp: true, entrance_accessible: true}
//	    facility_details:
//	      elevator: {available: true, features: [braille buttons]}
type File struct {
	Reports []ReportEntry `yaml:"reports"`
}

type ReportEntry struct {
	PlaceID              string          `yaml:"place_id"`
	PlaceName            string          `yaml:"place_name"`
	Summary              string          `yaml:"summary"`
	Score                int             `yaml:"accessibility_score"`
	Recommendations      []string        `yaml:"recommendations"`
	HighlightedObstacles []string        `yaml:"highlighted_obstacles"`
	Analysis             AnalysisEntry   `yaml:"ai_analysis"`
	Facilities           FacilitiesEntry `yaml:"facility_details"`
}

type AnalysisEntry struct {
	HasStairs          bool `yaml:"has_stairs"`
	StairsCount        int  `yaml:"stairs_count"`
	HasRamp            bool `yaml:"has_ramp"`
	EntranceAccessible bool `yaml:"entrance_accessible"`
}

type FacilitiesEntry struct {
	Entrance FacilityEntry `yaml:"entrance"`
	Restroom FacilityEntry `yaml:"restroom"`
	Parking  FacilityEntry `yaml:"parking"`
	Elevator FacilityEntry `yaml:"elevator"`
}

type FacilityEntry struct {
	Available bool     `yaml:"available"`
	Features  []string `yaml:"features"`
}
