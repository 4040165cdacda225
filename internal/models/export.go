package models

import "encoding/json"

// RawExport is the top level of a timeline location-history export
type RawExport struct {
	SemanticSegments []RawSegment `json:"semanticSegments"`
}

// RawSegment is one timestamped record of the export. At most one of Activity or
// Visit is normally present; TimelinePath is passed through untouched.
type RawSegment struct {
	StartTime                         *string         `json:"startTime"`
	EndTime                           *string         `json:"endTime"`
	StartTimeTimezoneUtcOffsetMinutes *int            `json:"startTimeTimezoneUtcOffsetMinutes,omitempty"`
	EndTimeTimezoneUtcOffsetMinutes   *int            `json:"endTimeTimezoneUtcOffsetMinutes,omitempty"`
	Activity                          *RawActivity    `json:"activity,omitempty"`
	Visit                             *RawVisit       `json:"visit,omitempty"`
	TimelinePath                      json.RawMessage `json:"timelinePath,omitempty"`
}

// RawLocation wraps the "latLng" string, e.g. "37.4219983°, -122.084°"
type RawLocation struct {
	LatLng *string `json:"latLng"`
}

// RawActivity is the activity substructure of a segment
type RawActivity struct {
	Start          *RawLocation          `json:"start"`
	End            *RawLocation          `json:"end"`
	DistanceMeters *float64              `json:"distanceMeters"`
	Probability    *float64              `json:"probability"`
	TopCandidate   *RawActivityCandidate `json:"topCandidate"`
	Parking        *RawParking           `json:"parking"`
}

// RawActivityCandidate is the most likely transport classification
type RawActivityCandidate struct {
	Type        *string  `json:"type"`
	Probability *float64 `json:"probability"`
}

// RawParking is where the vehicle was left at the end of an activity
type RawParking struct {
	Location  *RawLocation `json:"location"`
	StartTime *string      `json:"startTime"`
}

// RawVisit is the visit substructure of a segment
type RawVisit struct {
	HierarchyLevel *int               `json:"hierarchyLevel"`
	Probability    *float64           `json:"probability"`
	TopCandidate   *RawPlaceCandidate `json:"topCandidate"`
}

// RawPlaceCandidate is the most likely place for a visit
type RawPlaceCandidate struct {
	PlaceID       *string      `json:"placeId"`
	SemanticType  *string      `json:"semanticType"`
	Probability   *float64     `json:"probability"`
	PlaceLocation *RawLocation `json:"placeLocation"`
}
