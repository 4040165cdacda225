package ingest

import (
	"github.com/jengzang/records-drivecost/internal/models"
	"github.com/jengzang/records-drivecost/internal/spatial"
	"github.com/jengzang/records-drivecost/internal/timeutil"
)

// Enrich fills derived fields in place: weekday when the start is known, duration
// when both ends are known, and straight-line displacement for activities.
func Enrich(events []models.Event) []models.Event {
	for i := range events {
		e := &events[i]

		if e.StartTime != nil {
			day := timeutil.DayOfWeek(*e.StartTime)
			e.DayOfWeek = &day
		}

		if e.HasTimes() {
			secs := timeutil.Duration(*e.StartTime, *e.EndTime)
			e.DurationSeconds = &secs
		}

		if e.IsActivity() {
			if d, ok := spatial.Displacement(e.StartLatLng, e.EndLatLng); ok {
				e.DisplacementMeters = &d
			}
		}
	}
	return events
}

// MissingTimes returns the indices of events lacking a start or end time
func MissingTimes(events []models.Event) []int {
	var missing []int
	for i, e := range events {
		if !e.HasTimes() {
			missing = append(missing, i)
		}
	}
	return missing
}
