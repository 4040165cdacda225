package models

import "time"

// Category is the structural kind of an event. It is fixed at flattening time and
// never relabeled.
type Category string

const (
	CategoryVisit    Category = "visit"
	CategoryActivity Category = "activity"
)

// Transport candidate types reported for activities
const (
	TypeInPassengerVehicle = "IN_PASSENGER_VEHICLE"
	TypeWalking            = "WALKING"
	TypeCycling            = "CYCLING"
	TypeInBus              = "IN_BUS"
	TypeUnknown            = "UNKNOWN_ACTIVITY_TYPE"
)

// Event is one flattened visit or activity segment
type Event struct {
	Category Category `json:"category"`

	// SemanticType is the place type of a visit (HOME, INFERRED_WORK, ...) or the top
	// transport candidate of an activity
	SemanticType *string `json:"semanticType"`

	// Temporal info
	StartTime                         *time.Time `json:"startTime"`
	EndTime                           *time.Time `json:"endTime"`
	StartTimeTimezoneUtcOffsetMinutes *int       `json:"startTimeTimezoneUtcOffsetMinutes"`
	EndTimeTimezoneUtcOffsetMinutes   *int       `json:"endTimeTimezoneUtcOffsetMinutes"`

	// Activity fields
	StartLatLng             *string    `json:"startLatLng,omitempty"`
	EndLatLng               *string    `json:"endLatLng,omitempty"`
	DistanceMeters          *float64   `json:"distanceMeters,omitempty"`
	ActivityProbability     *float64   `json:"activityProbability,omitempty"`
	TopCandidateType        *string    `json:"topCandidateType,omitempty"`
	ParkingLatLng           *string    `json:"parkingLatLng,omitempty"`
	ParkingStartTime        *time.Time `json:"parkingStartTime,omitempty"`
	TopCandidateProbability *float64   `json:"topCandidateProbability,omitempty"`

	// Visit fields
	HierarchyLevel   *int     `json:"hierarchyLevel,omitempty"`
	VisitProbability *float64 `json:"visitProbability,omitempty"`
	PlaceID          *string  `json:"placeId,omitempty"`
	PlaceLatLng      *string  `json:"placeLatLng,omitempty"`

	// Derived by enrichment
	DurationSeconds    *int64   `json:"duration,omitempty"`
	DayOfWeek          *string  `json:"dayOfWeek,omitempty"`
	DisplacementMeters *float64 `json:"displacementMeters,omitempty"`
}

// IsVisit reports whether the event is structurally a visit
func (e Event) IsVisit() bool {
	return e.Category == CategoryVisit
}

// IsActivity reports whether the event is structurally an activity
func (e Event) IsActivity() bool {
	return e.Category == CategoryActivity
}

// HasTimes reports whether both start and end are known
func (e Event) HasTimes() bool {
	return e.StartTime != nil && e.EndTime != nil
}
