package models

import "time"

// IngestSummary counts what the flattener kept
type IngestSummary struct {
	TotalEvents  int `json:"totalEvents"`
	TotalPaths   int `json:"totalPaths"`
	Skipped      int `json:"skipped"`
	MissingTimes int `json:"missingTimes"`
	UniqueDrives int `json:"uniqueDriveDays"`

	FirstStart *time.Time `json:"firstStart,omitempty"`
	LastEnd    *time.Time `json:"lastEnd,omitempty"`
}

// SequenceAnalysis is the run-length summary over event categories
type SequenceAnalysis struct {
	TotalConsecutiveVisits       int      `json:"totalConsecutiveVisits"`
	TotalConsecutiveActivities   int      `json:"totalConsecutiveActivities"`
	AverageActivitiesInGroups    *float64 `json:"averageActivitiesInGroups"`
	AverageGapsBetweenActivities *float64 `json:"averageGapsBetweenActivities"`
	VisitRuns                    []int    `json:"visitRuns"`
	ActivityRuns                 []int    `json:"activityRuns"`
}

// EmissionsReport holds driven-distance emissions, wear cost and the regional baseline
type EmissionsReport struct {
	MilesDriven        float64 `json:"milesDriven"`
	GallonsBurned      float64 `json:"gallonsBurned"`
	CO2TonsReleased    float64 `json:"co2TonsReleased"`
	DustPoundsReleased float64 `json:"dustPoundsReleased"`
	WearCost           float64 `json:"wearCost"`
	FractionOfYear     float64 `json:"fractionOfYear"`
	DaysSpanned        int     `json:"daysSpanned"`
	RegionalMiles      float64 `json:"regionalMiles"`
	RegionalGallons    float64 `json:"regionalGallonsBurned"`
	RegionalCO2Tons    float64 `json:"regionalCo2TonsReleased"`
	RegionalDustPounds float64 `json:"regionalDustPoundsReleased"`
}

// Report is everything one run produces
type Report struct {
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Ingest      IngestSummary     `json:"ingest"`
	Sequence    *SequenceAnalysis `json:"sequence"`
	Emissions   *EmissionsReport  `json:"emissions"`
	Car         CarParams         `json:"car"`
	Payment     *CarPayment       `json:"payment"`
	Fees        *FeesInsurance    `json:"fees"`
	Totals      *TotalCosts       `json:"totals"`
	Failures    []string          `json:"failures,omitempty"`
}
