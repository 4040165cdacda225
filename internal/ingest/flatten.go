package ingest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/timeutil"
)

// DefaultCutoff is the first instant of the analysed history; earlier segments
// predate the current export format.
const DefaultCutoff = "2024-02-01T06:00:00-07:00"

// Flattener converts raw export segments into flat events
type Flattener struct {
	Cutoff time.Time
}

// NewFlattener creates a flattener keeping segments that start strictly after cutoff
func NewFlattener(cutoff time.Time) *Flattener {
	return &Flattener{Cutoff: cutoff}
}

// Result is the output of one flattening pass
type Result struct {
	Events  []models.Event
	Paths   []models.RawSegment
	Summary models.IngestSummary
}

// Process flattens every segment in export order
func (f *Flattener) Process(export *models.RawExport) (*Result, error) {
	res := &Result{}
	if export == nil {
		return res, nil
	}

	for i, seg := range export.SemanticSegments {
		start, err := timeutil.ParseTimestamp(seg.StartTime)
		if err != nil {
			return nil, failure.New(failure.KindMalformedFile, fmt.Sprintf("segment %d", i), err)
		}
		if start == nil || !start.After(f.Cutoff) {
			res.Summary.Skipped++
			continue
		}

		if len(seg.TimelinePath) > 0 && string(seg.TimelinePath) != "null" {
			res.Paths = append(res.Paths, seg)
		}

		if seg.Activity != nil {
			e, err := flattenActivity(seg)
			if err != nil {
				return nil, failure.New(failure.KindMalformedFile, fmt.Sprintf("segment %d activity", i), err)
			}
			res.Events = append(res.Events, e)
		}

		if seg.Visit != nil {
			e, err := flattenVisit(seg)
			if err != nil {
				return nil, failure.New(failure.KindMalformedFile, fmt.Sprintf("segment %d visit", i), err)
			}
			res.Events = append(res.Events, e)
		}
	}

	res.Summary.TotalEvents = len(res.Events)
	res.Summary.TotalPaths = len(res.Paths)

	log.Info().
		Str("component", "ingest").
		Int("events", res.Summary.TotalEvents).
		Int("timeline_paths", res.Summary.TotalPaths).
		Int("skipped", res.Summary.Skipped).
		Msg("Analyzed timeline data")
	return res, nil
}

// baseEvent fills the fields shared by both categories
func baseEvent(seg models.RawSegment, category models.Category) (models.Event, error) {
	e := models.Event{
		Category:                          category,
		StartTimeTimezoneUtcOffsetMinutes: seg.StartTimeTimezoneUtcOffsetMinutes,
		EndTimeTimezoneUtcOffsetMinutes:   seg.EndTimeTimezoneUtcOffsetMinutes,
	}

	var err error
	if e.StartTime, err = timeutil.ParseTimestamp(seg.StartTime); err != nil {
		return e, err
	}
	if e.EndTime, err = timeutil.ParseTimestamp(seg.EndTime); err != nil {
		return e, err
	}
	return e, nil
}

func flattenActivity(seg models.RawSegment) (models.Event, error) {
	e, err := baseEvent(seg, models.CategoryActivity)
	if err != nil {
		return e, err
	}

	a := seg.Activity
	e.StartLatLng = latLng(a.Start)
	e.EndLatLng = latLng(a.End)
	e.DistanceMeters = a.DistanceMeters
	e.ActivityProbability = a.Probability

	if a.TopCandidate != nil {
		e.TopCandidateType = a.TopCandidate.Type
		e.TopCandidateProbability = a.TopCandidate.Probability
		e.SemanticType = a.TopCandidate.Type
	}

	if a.Parking != nil {
		e.ParkingLatLng = latLng(a.Parking.Location)
		if e.ParkingStartTime, err = timeutil.ParseTimestamp(a.Parking.StartTime); err != nil {
			return e, err
		}
	}
	return e, nil
}

func flattenVisit(seg models.RawSegment) (models.Event, error) {
	e, err := baseEvent(seg, models.CategoryVisit)
	if err != nil {
		return e, err
	}

	v := seg.Visit
	e.HierarchyLevel = v.HierarchyLevel
	e.VisitProbability = v.Probability

	if v.TopCandidate != nil {
		e.PlaceID = v.TopCandidate.PlaceID
		e.SemanticType = v.TopCandidate.SemanticType
		e.TopCandidateProbability = v.TopCandidate.Probability
		e.PlaceLatLng = latLng(v.TopCandidate.PlaceLocation)
	}
	return e, nil
}

func latLng(loc *models.RawLocation) *string {
	if loc == nil {
		return nil
	}
	return loc.LatLng
}
