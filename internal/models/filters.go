package models

// EventFilter represents filter parameters for querying indexed events
type EventFilter struct {
	Category     string `form:"category"`     // visit, activity
	SemanticType string `form:"semanticType"` // HOME, IN_PASSENGER_VEHICLE, ...
	DayOfWeek    string `form:"dayOfWeek"`    // Monday ... Sunday
	StartTime    int64  `form:"startTime"`    // Unix timestamp
	EndTime      int64  `form:"endTime"`      // Unix timestamp
	MinDuration  int64  `form:"minDuration"`  // Seconds
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// EventsResponse represents a paginated response of events
type EventsResponse struct {
	Data       []Event `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// WeekdaySummary aggregates indexed events by the weekday of their start
type WeekdaySummary struct {
	DayOfWeek       string  `json:"dayOfWeek"`
	Visits          int64   `json:"visits"`
	Activities      int64   `json:"activities"`
	DurationSeconds int64   `json:"durationSeconds"`
	DistanceMeters  float64 `json:"distanceMeters"`
}
