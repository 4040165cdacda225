package timeutil

import (
	"fmt"
	"math"
	"time"

	"github.com/jengzang/records-drivecost/internal/failure"
	"github.com/jengzang/records-drivecost/internal/models"
)

// ParseTimestamp parses an ISO-8601 timestamp carrying a UTC offset.
// A nil input yields nil without error; malformed input is an error.
func ParseTimestamp(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", *s, err)
	}
	return &t, nil
}

// MustParse is ParseTimestamp for literals known to be valid
func MustParse(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Duration returns end - start in whole seconds, truncated toward zero.
// Negative results are kept: they flag segments whose end precedes their start.
func Duration(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Second)
}

// DayOfWeek returns the English weekday name in the instant's own offset
func DayOfWeek(t time.Time) string {
	return t.Weekday().String()
}

// DateTimeInfo splits an instant into weekday, date (YYYY-MM-DD) and 24h clock (HH:MM)
func DateTimeInfo(t time.Time) (weekday, date, clock string) {
	return t.Weekday().String(), t.Format("2006-01-02"), t.Format("15:04")
}

// MinMaxSpan returns the start of the first event and the end of the last one.
// Events must be in chronological order of start time; an out-of-order sequence
// is rejected rather than scanned.
func MinMaxSpan(events []models.Event) (*time.Time, *time.Time, error) {
	if len(events) == 0 {
		return nil, nil, nil
	}

	var prev *time.Time
	for i := range events {
		st := events[i].StartTime
		if st == nil {
			continue
		}
		if prev != nil && st.Before(*prev) {
			return nil, nil, failure.Newf(failure.KindUnsorted, "min max span",
				"event %d starts at %s before preceding event at %s", i, st.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
		prev = st
	}

	return events[0].StartTime, events[len(events)-1].EndTime, nil
}

// DaysBetween counts whole elapsed days between two instants, rounding down
func DaysBetween(min, max time.Time) int {
	return int(math.Floor(max.Sub(min).Hours() / 24))
}

// CountUniqueDays counts distinct local calendar dates among event start times
func CountUniqueDays(events []models.Event) int {
	days := make(map[string]struct{})
	for _, e := range events {
		if e.StartTime == nil {
			continue
		}
		days[e.StartTime.Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}
